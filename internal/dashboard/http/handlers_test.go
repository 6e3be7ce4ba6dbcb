package dashboardhttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciclopay/ciclopay/internal/engine"
	"github.com/ciclopay/ciclopay/internal/shared"
)

type stubService struct {
	dash engine.Dashboard
	err  error
	last string
}

func (s *stubService) Compute(ctx context.Context, userID string) (engine.Dashboard, error) {
	s.last = userID
	return s.dash, s.err
}

func newTestRouter(service DashboardService) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, service)
	r := chi.NewRouter()
	r.Route("/dashboard", handler.MountRoutes)
	return r
}

func asUser(req *http.Request, userID, role string) *http.Request {
	ctx := shared.ContextWithActor(req.Context(), &shared.Actor{UserID: userID, Role: role})
	return req.WithContext(ctx)
}

func TestSummaryRequiresActor(t *testing.T) {
	router := newTestRouter(&stubService{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSummaryReturnsDashboard(t *testing.T) {
	service := &stubService{dash: engine.Dashboard{FinalConsolidated: 80, MyCommissionPaid: 20}}
	router := newTestRouter(service)

	req := asUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "op-1", "operator")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "op-1", service.last)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.InDelta(t, 80.0, body["final_consolidated"].(float64), 1e-9)
	assert.InDelta(t, 20.0, body["my_commission_paid"].(float64), 1e-9)
}

func TestSummaryComputeFailure(t *testing.T) {
	router := newTestRouter(&stubService{err: errors.New("snapshot load failed")})

	req := asUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "op-1", "operator")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestExportStreamsSpreadsheet(t *testing.T) {
	router := newTestRouter(&stubService{dash: engine.Dashboard{FinalConsolidated: 80}})

	req := asUser(httptest.NewRequest(http.MethodGet, "/dashboard/export.xlsx", nil), "admin-1", "admin")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "dashboard-")
	assert.NotZero(t, rr.Body.Len())
}
