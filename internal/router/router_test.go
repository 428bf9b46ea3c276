package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-triage/internal/handler"
	"inbox-triage/internal/loader"
	"inbox-triage/internal/logger"
	"inbox-triage/internal/model"
	"inbox-triage/internal/repository/memory"
	"inbox-triage/internal/service"
	"inbox-triage/internal/session"
	"inbox-triage/internal/sse"
)

func setup(t *testing.T) *echo.Echo {
	t.Helper()
	appLogger := logger.NewWithWriter(&bytes.Buffer{})

	mock := loader.NewMockLoader()
	mock.LoadDashboardModelFunc = func(ctx context.Context) (*model.DashboardModel, error) {
		return &model.DashboardModel{Blocks: []model.CategoryBlock{
			{Category: model.CategoryActionRequired, Items: []model.EmailItem{{EmailID: "a1"}}},
		}}, nil
	}
	store := service.NewTriageStore(memory.NewInMemoryKeyValueStore(), "", appLogger)
	dashboard := service.NewDashboardService(mock, store, 6, appLogger)
	require.NoError(t, dashboard.Load(context.Background(), time.Now()))

	e := echo.New()
	manager := sse.NewSSEManager(appLogger)
	t.Cleanup(manager.Close)
	tracker := session.NewTracker(session.NewCookieStore([]byte("test-secret"), false))

	SetupRoutes(e,
		handler.NewDashboardHandler(dashboard, tracker, manager, e.Logger),
		handler.NewSSEHandler(manager, e.Logger),
		tracker,
	)
	return e
}

func TestHealthAndMetrics(t *testing.T) {
	e := setup(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inbox_triage_model_loads_total")
}

func TestAPISetsSessionCookie(t *testing.T) {
	e := setup(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/board", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var names []string
	for _, c := range rec.Result().Cookies() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, session.CookieName)
}

func TestTriageRoutes(t *testing.T) {
	e := setup(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/emails/a1/ignore", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Moved to Ignored.")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/triage", nil))
	assert.JSONEq(t, `{"done":[],"ignored":["a1"],"snoozed":{}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/emails/a1/restore", nil))
	assert.Contains(t, rec.Body.String(), "Restored to inbox.")
}
