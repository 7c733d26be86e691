package payrollhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/payroll"
	"github.com/mohazard555/sam-hr1993-sub000/internal/platform/jobs"
	"github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/api"
	"github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/middleware"
	"github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/shared"
)

type Service interface {
	Compute(ctx context.Context, start, end time.Time) (payroll.Result, error)
	ComputeMonth(ctx context.Context, month, year int) (payroll.Result, error)
	Archive(ctx context.Context, start, end time.Time) (payroll.Run, error)
	Reopen(ctx context.Context, runID string) (payroll.Run, error)
	GetRun(ctx context.Context, runID string) (payroll.Run, error)
	ListRuns(ctx context.Context) ([]payroll.RunHeader, error)
}

type JobRunner interface {
	RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error)
	History() []jobs.Run
}

type Handler struct {
	Service Service
	Jobs    JobRunner
}

func NewHandler(service Service, jobRunner JobRunner) *Handler {
	return &Handler{Service: service, Jobs: jobRunner}
}

type periodPayload struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/compute", h.handleCompute)
		r.Get("/monthly", h.handleMonthly)
		r.Get("/runs", h.handleListRuns)
		r.Post("/runs", h.handleArchive)
		r.Get("/runs/{runID}", h.handleGetRun)
		r.Delete("/runs/{runID}", h.handleReopen)
		r.Get("/runs/{runID}/export/register", h.handleExportRegister)
		r.Get("/jobs", h.handleListJobs)
	})
}

func (h *Handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	start, end, ok := decodePeriod(w, r)
	if !ok {
		return
	}
	result, err := h.Service.Compute(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, r, err, "payroll_compute_failed", "failed to compute payroll")
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMonthly(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		v.Add("month", "must be an integer between 1 and 12")
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		v.Add("year", "must be a positive integer")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.ComputeMonth(r.Context(), month, year)
	if err != nil {
		writeServiceError(w, r, err, "payroll_compute_failed", "failed to compute payroll")
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	start, end, ok := decodePeriod(w, r)
	if !ok {
		return
	}

	archive := func(ctx context.Context) (any, error) {
		return h.Service.Archive(ctx, start, end)
	}
	var (
		out any
		err error
	)
	if h.Jobs != nil {
		out, err = h.Jobs.RunNow(r.Context(), jobs.JobArchive, archive)
	} else {
		out, err = archive(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, err, "payroll_archive_failed", "failed to archive payroll")
		return
	}
	api.Created(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Service.ListRuns(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "payroll_runs_failed", "failed to list payroll runs")
		return
	}
	page := shared.ParsePagination(r, 25, 200)
	api.Success(w, api.Page{
		Items:  shared.Paginate(runs, page),
		Total:  len(runs),
		Limit:  page.Limit,
		Offset: page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Service.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeServiceError(w, r, err, "payroll_run_failed", "failed to load payroll run")
		return
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReopen(w http.ResponseWriter, r *http.Request) {
	run, err := h.Service.Reopen(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeServiceError(w, r, err, "payroll_reopen_failed", "failed to reopen payroll run")
		return
	}
	api.Success(w, run.Header(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportRegister(w http.ResponseWriter, r *http.Request) {
	run, err := h.Service.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeServiceError(w, r, err, "export_failed", "failed to export register")
		return
	}

	filename := fmt.Sprintf("payroll-register-%s-%s.csv", run.PeriodStart, run.PeriodEnd)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if err := payroll.WriteRegisterCSV(w, run.Records); err != nil {
		slog.Warn("export register write failed", "runId", run.ID, "err", err)
	}
}

func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	history := []jobs.Run{}
	if h.Jobs != nil {
		history = h.Jobs.History()
	}
	api.Success(w, history, middleware.GetRequestID(r.Context()))
}

func decodePeriod(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	var payload periodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return time.Time{}, time.Time{}, false
	}
	v := shared.NewValidator()
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrInvalidPeriod), errors.Is(err, payroll.ErrInvalidMonth):
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
	case errors.Is(err, payroll.ErrRunNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll run not found", requestID)
	case errors.Is(err, payroll.ErrPeriodAlreadyArchived):
		api.Fail(w, http.StatusConflict, "already_archived", "payroll period already archived", requestID)
	case errors.Is(err, payroll.ErrLoanBalanceChanged):
		api.Fail(w, http.StatusConflict, "loan_balance_changed", "loan balances changed while archiving, retry", requestID)
	default:
		slog.Error(message, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
