package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorCollectsSortedIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "  ", "is required")
	v.Enum("status", "Present", []string{"present", "absent"}, "unknown status")
	v.Enum("type", "gift", []string{"bonus"}, "unknown type")
	v.Clock("checkIn", "8:00")
	v.Clock("checkOut", "")
	v.NonNegative("amount", -1)
	v.OptionalPositive("workDaysPerCycle", nil)

	issues := v.Issues()
	require.Len(t, issues, 4)
	assert.Equal(t, "amount", issues[0].Field)
	assert.Equal(t, "checkIn", issues[1].Field)
	assert.Equal(t, "name", issues[2].Field)
	assert.Equal(t, "type", issues[3].Field)
}

func TestValidatorDates(t *testing.T) {
	v := NewValidator()
	start, ok := v.Date("startDate", "2024-01-31")
	require.True(t, ok)
	end, ok := v.Date("endDate", "2024-01-01")
	require.True(t, ok)
	v.DateOrder("startDate", start, "endDate", end)
	_, ok = v.Date("other", "2024-01-01T00:00:00Z")
	assert.False(t, ok)
	v.OptionalDate("collectionDate", "")

	assert.Len(t, v.Issues(), 3)
}

func TestValidatorClock(t *testing.T) {
	for _, good := range []string{"00:00", "08:05", "23:59"} {
		v := NewValidator()
		v.Clock("t", good)
		assert.False(t, v.HasIssues(), good)
	}
	for _, bad := range []string{"24:00", "12:60", "7:30", "noon"} {
		v := NewValidator()
		v.Clock("t", bad)
		assert.True(t, v.HasIssues(), bad)
	}
}

func TestRejectWritesValidationError(t *testing.T) {
	v := NewValidator()
	v.Add("date", "must be set")
	rec := httptest.NewRecorder()

	require.True(t, v.Reject(rec, "req-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, []ValidationIssue{{Field: "date", Reason: "must be set"}}, body.Error.Details.Fields)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{2, 3}, Paginate(items, Pagination{Limit: 2, Offset: 1}))
	assert.Equal(t, []int{5}, Paginate(items, Pagination{Limit: 10, Offset: 4}))
	assert.Empty(t, Paginate(items, Pagination{Limit: 2, Offset: 9}))

	req := httptest.NewRequest(http.MethodGet, "/?limit=500&offset=-1", nil)
	assert.Equal(t, Pagination{Limit: 100, Offset: 0}, ParsePagination(req, 50, 100))
}
