package payrollhandler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/hrdata"
	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/payroll"
	"github.com/mohazard555/sam-hr1993-sub000/internal/platform/jobs"
	payrollhandler "github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/handlers/payroll"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type fixture struct {
	router http.Handler
	store  *hrdata.MemoryStore
	jobs   *jobs.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := hrdata.NewMemoryStore()
	require.NoError(t, store.UpsertEmployee(ctx, payroll.Employee{ID: "e1", Name: "Sara", BaseSalary: 2600}))
	require.NoError(t, store.UpsertLoan(ctx, payroll.Loan{
		ID: "loan1", EmployeeID: "e1", Amount: 1000, RemainingAmount: 1000, MonthlyInstallment: 400, Date: "2024-01-05",
	}))

	service := payroll.NewService(store, nil)
	jobService := jobs.New(service, 0, 4)
	router := chi.NewRouter()
	payrollhandler.NewHandler(service, jobService).RegisterRoutes(router)
	return fixture{router: router, store: store, jobs: jobService}
}

func (f fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestComputeReturnsRecordsAndSummary(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/payroll/compute", `{"startDate":"2024-01-01","endDate":"2024-01-31"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var result payroll.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.Records, 1)
	assert.Equal(t, "e1", result.Records[0].EmployeeID)
	assert.Equal(t, payroll.Amount(400), result.Records[0].LoanInstallments)
	assert.Equal(t, 1, result.Summary.EmployeeCount)
}

func TestComputeValidatesPeriod(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "malformed json", body: `{`, code: "invalid_payload"},
		{name: "missing dates", body: `{}`, code: "validation_error"},
		{name: "bad format", body: `{"startDate":"01/01/2024","endDate":"2024-01-31"}`, code: "validation_error"},
		{name: "inverted", body: `{"startDate":"2024-02-01","endDate":"2024-01-31"}`, code: "validation_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := f.do(t, http.MethodPost, "/payroll/compute", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestMonthly(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodGet, "/payroll/monthly?month=2&year=2024", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result payroll.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "2024-02-01", result.PeriodStart)
	assert.Equal(t, "2024-02-29", result.PeriodEnd)

	rec, env = f.do(t, http.MethodGet, "/payroll/monthly?month=13&year=2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", env.Error.Code)
}

func TestArchiveLifecycle(t *testing.T) {
	f := newFixture(t)
	period := `{"startDate":"2024-01-01","endDate":"2024-01-31"}`

	rec, env := f.do(t, http.MethodPost, "/payroll/runs", period)
	require.Equal(t, http.StatusCreated, rec.Code)
	var run payroll.Run
	require.NoError(t, json.Unmarshal(env.Data, &run))
	require.NotEmpty(t, run.ID)

	loans, err := f.store.ListLoans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(600), loans[0].RemainingAmount)

	rec, env = f.do(t, http.MethodPost, "/payroll/runs", period)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_archived", env.Error.Code)

	rec, env = f.do(t, http.MethodGet, "/payroll/runs?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []payroll.RunHeader `json:"items"`
		Total int                 `json:"total"`
		Limit int                 `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 10, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, run.ID, page.Items[0].ID)

	rec, _ = f.do(t, http.MethodGet, "/payroll/runs/"+run.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/payroll/runs/"+run.ID+"/export/register", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payroll-register-2024-01-01-2024-01-31.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "e1,Sara,2024-01-01,2024-01-31,"))

	rec, _ = f.do(t, http.MethodDelete, "/payroll/runs/"+run.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	loans, err = f.store.ListLoans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(1000), loans[0].RemainingAmount)

	rec, env = f.do(t, http.MethodGet, "/payroll/runs/"+run.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Code)
	rec, _ = f.do(t, http.MethodDelete, "/payroll/runs/"+run.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJobsHistoryRecordsArchives(t *testing.T) {
	f := newFixture(t)
	period := `{"startDate":"2024-01-01","endDate":"2024-01-31"}`
	f.do(t, http.MethodPost, "/payroll/runs", period)
	f.do(t, http.MethodPost, "/payroll/runs", period)

	rec, env := f.do(t, http.MethodGet, "/payroll/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []jobs.Run
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 2)
	assert.Equal(t, jobs.JobArchive, history[0].JobType)
	assert.Equal(t, jobs.StatusSkipped, history[0].Status)
	assert.Equal(t, jobs.StatusCompleted, history[1].Status)
}
