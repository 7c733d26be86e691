package hrdata

// Collection is an id-keyed set of records that remembers insertion order.
// It does no locking of its own; the owning store serialises access.
type Collection[T any] struct {
	key   func(T) string
	items map[string]T
	order []string
}

func NewCollection[T any](key func(T) string) *Collection[T] {
	return &Collection[T]{key: key, items: map[string]T{}}
}

// Upsert inserts item or replaces the record with the same id in place.
func (c *Collection[T]) Upsert(item T) {
	id := c.key(item)
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = item
}

func (c *Collection[T]) Get(id string) (T, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *Collection[T]) Delete(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns a copy of every record in insertion order.
func (c *Collection[T]) List() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *Collection[T]) Len() int {
	return len(c.order)
}
