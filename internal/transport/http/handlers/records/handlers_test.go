package recordshandler_test

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
	recordshandler "github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/handlers/records"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details struct {
			Fields []struct {
				Field string `json:"field"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func (e envelope) fields() []string {
	if e.Error == nil {
		return nil
	}
	out := make([]string, 0, len(e.Error.Details.Fields))
	for _, f := range e.Error.Details.Fields {
		out = append(out, f.Field)
	}
	return out
}

func newRouter(store hrdata.Store) http.Handler {
	router := chi.NewRouter()
	recordshandler.NewHandler(store).RegisterRoutes(router)
	return router
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestEmployeeUpsertListDelete(t *testing.T) {
	store := hrdata.NewMemoryStore()
	h := newRouter(store)

	rec, env := do(t, h, http.MethodPut, "/employees/e1", `{"name":"  Sara  ","baseSalary":2600,"workDaysPerCycle":22,"customCheckIn":"09:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved payroll.Employee
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, "e1", saved.ID)
	assert.Equal(t, "Sara", saved.Name)

	rec, _ = do(t, h, http.MethodPut, "/employees/e2", `{"name":"Omar","baseSalary":5200}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, h, http.MethodGet, "/employees/?limit=1&offset=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items  []payroll.Employee `json:"items"`
		Total  int                `json:"total"`
		Offset int                `json:"offset"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Offset)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "e2", page.Items[0].ID)

	rec, _ = do(t, h, http.MethodDelete, "/employees/e1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, env = do(t, h, http.MethodDelete, "/employees/e1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Code)
}

func TestUpsertRejectsMismatchedID(t *testing.T) {
	h := newRouter(hrdata.NewMemoryStore())

	rec, env := do(t, h, http.MethodPut, "/employees/e1", `{"id":"e2","name":"Sara"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"id"}, env.fields())

	rec, env = do(t, h, http.MethodPut, "/employees/e1", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_payload", env.Error.Code)
}

func TestValidationPerKind(t *testing.T) {
	h := newRouter(hrdata.NewMemoryStore())

	tests := []struct {
		name   string
		path   string
		body   string
		fields []string
	}{
		{
			name:   "employee",
			path:   "/employees/e1",
			body:   `{"name":"","baseSalary":-1,"workDaysPerCycle":0,"customCheckOut":"25:00"}`,
			fields: []string{"baseSalary", "customCheckOut", "name", "workDaysPerCycle"},
		},
		{
			name:   "attendance",
			path:   "/attendance/a1",
			body:   `{"employeeId":"e1","date":"2024-02-30","checkIn":"9:00","status":"holiday"}`,
			fields: []string{"checkIn", "date", "status"},
		},
		{
			name:   "loan",
			path:   "/loans/l1",
			body:   `{"employeeId":"e1","amount":100,"remainingAmount":200,"date":"2024-01-01","collectionDate":"soon"}`,
			fields: []string{"collectionDate", "remainingAmount"},
		},
		{
			name:   "financial",
			path:   "/financials/f1",
			body:   `{"employeeId":"e1","type":"gift","amount":10,"date":"2024-01-01"}`,
			fields: []string{"type"},
		},
		{
			name:   "leave",
			path:   "/leaves/lv1",
			body:   `{"employeeId":"e1","startDate":"2024-01-10","endDate":"2024-01-05","status":"approved"}`,
			fields: []string{"endDate", "startDate"},
		},
		{
			name:   "permission",
			path:   "/permissions/p1",
			body:   `{"date":"2024-01-01","hours":-2}`,
			fields: []string{"employeeId", "hours"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "validation_error", env.Error.Code)
			assert.Equal(t, tt.fields, env.fields())
		})
	}
}

func TestEnumsAreNormalized(t *testing.T) {
	store := hrdata.NewMemoryStore()
	h := newRouter(store)

	rec, _ := do(t, h, http.MethodPut, "/attendance/a1", `{"employeeId":"e1","date":"2024-01-02","status":" Present "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, h, http.MethodPut, "/financials/f1", `{"employeeId":"e1","type":"PRODUCTION_INCENTIVE","amount":50,"date":"2024-01-02"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payroll.AttendancePresent, snap.Attendance[0].Status)
	assert.Equal(t, payroll.FinancialProductionIncentive, snap.Financials[0].Type)
}

func TestProductionTotalIsDerived(t *testing.T) {
	h := newRouter(hrdata.NewMemoryStore())

	rec, env := do(t, h, http.MethodPut, "/production/p1", `{"employeeId":"e1","date":"2024-01-02","piecesCount":12,"valuePerPiece":2.5,"totalValue":999}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved payroll.ProductionEntry
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, float64(30), saved.TotalValue)
}

func TestListFiltersByEmployee(t *testing.T) {
	h := newRouter(hrdata.NewMemoryStore())
	do(t, h, http.MethodPut, "/permissions/p1", `{"employeeId":"e1","date":"2024-01-02","hours":2}`)
	do(t, h, http.MethodPut, "/permissions/p2", `{"employeeId":"e2","date":"2024-01-02","hours":1}`)
	do(t, h, http.MethodPut, "/permissions/p3", `{"employeeId":"e1","date":"2024-01-03","hours":1}`)

	rec, env := do(t, h, http.MethodGet, "/permissions/?employeeId=e1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []payroll.PermissionRecord `json:"items"`
		Total int                        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "p1", page.Items[0].ID)
	assert.Equal(t, "p3", page.Items[1].ID)

	rec, env = do(t, h, http.MethodGet, "/leaves/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"total":0,"limit":100,"offset":0}`, string(env.Data))
}

func TestSettings(t *testing.T) {
	h := newRouter(hrdata.NewMemoryStore())

	rec, env := do(t, h, http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var settings payroll.CompanySettings
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, payroll.DefaultCompanySettings(), settings)

	rec, env = do(t, h, http.MethodPut, "/settings", `{"salaryCycle":"Weekly","gracePeriodMinutes":10}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, payroll.SalaryCycleWeekly, settings.SalaryCycle)
	assert.Equal(t, 10, settings.GracePeriodMinutes)
	assert.Equal(t, payroll.DefaultCompanySettings().OfficialCheckIn, settings.OfficialCheckIn)

	rec, env = do(t, h, http.MethodPut, "/settings", `{"salaryCycle":"daily","officialCheckIn":"8"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"officialCheckIn", "salaryCycle"}, env.fields())
}

func TestSettingsRequireOvertimeRate(t *testing.T) {
	store := hrdata.NewMemoryStore()
	h := newRouter(store)

	rec, env := do(t, h, http.MethodPut, "/settings", `{"salaryCycle":"monthly","overtimeHourRate":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"overtimeHourRate"}, env.fields())

	settings, err := store.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payroll.DefaultCompanySettings().OvertimeHourRate, settings.OvertimeHourRate)

	rec, env = do(t, h, http.MethodPut, "/settings", `{"salaryCycle":"monthly"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, 1.5, settings.OvertimeHourRate)
}
