package recordshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/hrdata"
	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/payroll"
	"github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/api"
	"github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/middleware"
	"github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/shared"
)

// Handler exposes the HR collections the payroll engine reads. Every write
// is validated so that stored dates, times and enums are well formed.
type Handler struct {
	Store hrdata.Store
}

func NewHandler(store hrdata.Store) *Handler {
	return &Handler{Store: store}
}

// kind describes one id-keyed collection.
type kind[T any] struct {
	name     string
	list     func(context.Context) ([]T, error)
	upsert   func(context.Context, T) error
	remove   func(context.Context, string) error
	id       func(*T) *string
	owner    func(T) string
	validate func(*shared.Validator, *T)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.handleGetSettings)
	r.Put("/settings", h.handlePutSettings)

	mount(r, kind[payroll.Employee]{
		name:     "employees",
		list:     h.Store.ListEmployees,
		upsert:   h.Store.UpsertEmployee,
		remove:   h.Store.DeleteEmployee,
		id:       func(e *payroll.Employee) *string { return &e.ID },
		owner:    func(e payroll.Employee) string { return e.ID },
		validate: validateEmployee,
	})
	mount(r, kind[payroll.AttendanceRecord]{
		name:     "attendance",
		list:     h.Store.ListAttendance,
		upsert:   h.Store.UpsertAttendance,
		remove:   h.Store.DeleteAttendance,
		id:       func(a *payroll.AttendanceRecord) *string { return &a.ID },
		owner:    func(a payroll.AttendanceRecord) string { return a.EmployeeID },
		validate: validateAttendance,
	})
	mount(r, kind[payroll.Loan]{
		name:     "loans",
		list:     h.Store.ListLoans,
		upsert:   h.Store.UpsertLoan,
		remove:   h.Store.DeleteLoan,
		id:       func(l *payroll.Loan) *string { return &l.ID },
		owner:    func(l payroll.Loan) string { return l.EmployeeID },
		validate: validateLoan,
	})
	mount(r, kind[payroll.FinancialEntry]{
		name:     "financials",
		list:     h.Store.ListFinancials,
		upsert:   h.Store.UpsertFinancial,
		remove:   h.Store.DeleteFinancial,
		id:       func(f *payroll.FinancialEntry) *string { return &f.ID },
		owner:    func(f payroll.FinancialEntry) string { return f.EmployeeID },
		validate: validateFinancial,
	})
	mount(r, kind[payroll.ProductionEntry]{
		name:     "production",
		list:     h.Store.ListProduction,
		upsert:   h.Store.UpsertProduction,
		remove:   h.Store.DeleteProduction,
		id:       func(p *payroll.ProductionEntry) *string { return &p.ID },
		owner:    func(p payroll.ProductionEntry) string { return p.EmployeeID },
		validate: validateProduction,
	})
	mount(r, kind[payroll.LeaveRequest]{
		name:     "leaves",
		list:     h.Store.ListLeaves,
		upsert:   h.Store.UpsertLeave,
		remove:   h.Store.DeleteLeave,
		id:       func(l *payroll.LeaveRequest) *string { return &l.ID },
		owner:    func(l payroll.LeaveRequest) string { return l.EmployeeID },
		validate: validateLeave,
	})
	mount(r, kind[payroll.PermissionRecord]{
		name:     "permissions",
		list:     h.Store.ListPermissions,
		upsert:   h.Store.UpsertPermission,
		remove:   h.Store.DeletePermission,
		id:       func(p *payroll.PermissionRecord) *string { return &p.ID },
		owner:    func(p payroll.PermissionRecord) string { return p.EmployeeID },
		validate: validatePermission,
	})
}

func mount[T any](r chi.Router, k kind[T]) {
	r.Route("/"+k.name, func(r chi.Router) {
		r.Get("/", k.handleList)
		r.Put("/{id}", k.handlePut)
		r.Delete("/{id}", k.handleDelete)
	})
}

func (k kind[T]) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := k.list(r.Context())
	if err != nil {
		slog.Error("list records failed", "kind", k.name, "err", err)
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list "+k.name, middleware.GetRequestID(r.Context()))
		return
	}
	if employeeID := strings.TrimSpace(r.URL.Query().Get("employeeId")); employeeID != "" {
		filtered := make([]T, 0, len(items))
		for _, item := range items {
			if k.owner(item) == employeeID {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	if items == nil {
		items = []T{}
	}
	page := shared.ParsePagination(r, 100, 1000)
	api.Success(w, api.Page{
		Items:  shared.Paginate(items, page),
		Total:  len(items),
		Limit:  page.Limit,
		Offset: page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (k kind[T]) handlePut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var item T
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	id := k.id(&item)
	pathID := chi.URLParam(r, "id")
	if *id != "" && *id != pathID {
		v.Add("id", "must match the id in the path")
	}
	*id = pathID
	k.validate(v, &item)
	if v.Reject(w, requestID) {
		return
	}

	if err := k.upsert(r.Context(), item); err != nil {
		slog.Error("upsert record failed", "kind", k.name, "id", pathID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "save_failed", "failed to save record", requestID)
		return
	}
	api.Success(w, item, requestID)
}

func (k kind[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	err := k.remove(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, hrdata.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestID)
		return
	}
	if err != nil {
		slog.Error("delete record failed", "kind", k.name, "err", err)
		api.Fail(w, http.StatusInternalServerError, "delete_failed", "failed to delete record", requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.Settings(r.Context())
	if err != nil {
		slog.Error("load settings failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "settings_failed", "failed to load settings", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, settings, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	settings := payroll.DefaultCompanySettings()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	validateSettings(v, &settings)
	if v.Reject(w, requestID) {
		return
	}
	if err := h.Store.SaveSettings(r.Context(), settings); err != nil {
		slog.Error("save settings failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "settings_failed", "failed to save settings", requestID)
		return
	}
	api.Success(w, settings, requestID)
}
