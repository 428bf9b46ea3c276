package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-triage/internal/loader"
	"inbox-triage/internal/logger"
	"inbox-triage/internal/model"
	"inbox-triage/internal/repository/memory"
	"inbox-triage/internal/service"
	"inbox-triage/internal/session"
	"inbox-triage/internal/sse"
	"inbox-triage/internal/triage"
)

var fixedNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	e         *echo.Echo
	handler   *DashboardHandler
	tracker   *session.Tracker
	manager   *sse.SSEManager
	dashboard service.DashboardService
}

func newFixture(t *testing.T, loadErr error) *fixture {
	t.Helper()
	appLogger := logger.NewWithWriter(&bytes.Buffer{})

	mock := loader.NewMockLoader()
	mock.LoadDashboardModelFunc = func(ctx context.Context) (*model.DashboardModel, error) {
		if loadErr != nil {
			return nil, loadErr
		}
		return &model.DashboardModel{Blocks: []model.CategoryBlock{
			{Category: model.CategoryUrgentAttention, Items: []model.EmailItem{
				{EmailID: "u1", FromName: "Dana", Confidence: 0.93, ReceivedAt: "2024-01-01T09:00:00Z"},
			}},
			{Category: model.CategoryInformational, Items: []model.EmailItem{
				{EmailID: "i1", ReceivedAt: "2024-01-01T08:00:00Z"},
			}},
		}}, nil
	}

	store := service.NewTriageStore(memory.NewInMemoryKeyValueStore(), service.DefaultStorageKey, appLogger)
	dashboard := service.NewDashboardService(mock, store, 6, appLogger)
	_ = dashboard.Load(context.Background(), fixedNow)

	e := echo.New()
	manager := sse.NewSSEManager(appLogger)
	t.Cleanup(manager.Close)
	tracker := session.NewTracker(session.NewCookieStore([]byte("test-secret"), false))

	h := NewDashboardHandler(dashboard, tracker, manager, e.Logger)
	h.now = func() time.Time { return fixedNow }

	return &fixture{e: e, handler: h, tracker: tracker, manager: manager, dashboard: dashboard}
}

func (f *fixture) call(method, target, body string, sid string, params map[string]string, fn echo.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	c.Set(session.ContextKey, sid)
	for name, value := range params {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}
	_ = fn(c)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestGetBoardReturns503BeforeModelLoads(t *testing.T) {
	f := newFixture(t, &loader.LoadError{StatusCode: 500, Status: "Internal Server Error"})

	rec := f.call(http.MethodGet, "/api/board", "", "s1", nil, f.handler.GetBoard)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decodeMap(t, rec)["error"], "failed to load JSON: 500 Internal Server Error")
}

func TestGetBoard(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.call(http.MethodGet, "/api/board", "", "s1", nil, f.handler.GetBoard)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, float64(2), body["total"])
	panels := body["panels"].([]interface{})
	require.Len(t, panels, 4)
	first := panels[0].(map[string]interface{})
	assert.Equal(t, "Urgent attention", first["title"])
	item := first["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "u1", item["email_id"])
	assert.Equal(t, true, item["_show_new"])
}

func TestGetEmailMarksViewed(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.call(http.MethodGet, "/api/emails/u1?category=urgent_attention", "", "s1",
		map[string]string{"id": "u1"}, f.handler.GetEmail)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, "Dana", body["sender"])
	assert.Equal(t, "High", body["confidence_label"])
	assert.Equal(t, "inbox", body["status"])
	assert.True(t, f.tracker.Viewed("s1").Has("u1"))

	board, err := f.dashboard.Board(context.Background(), f.tracker.Viewed("s1"), fixedNow)
	require.NoError(t, err)
	assert.False(t, board.Panels[0].Items[0].ShowNew)

	rec = f.call(http.MethodGet, "/api/emails/nope", "", "s1", map[string]string{"id": "nope"}, f.handler.GetEmail)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActionBroadcastsAndReturnsToast(t *testing.T) {
	f := newFixture(t, nil)
	client := f.manager.AddClient("s2")

	rec := f.call(http.MethodPost, "/api/emails/u1/done", "", "s1",
		map[string]string{"id": "u1"}, f.handler.Action(triage.ActionDone))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ActionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Moved to Done.", resp.Message)
	assert.Equal(t, []string{"u1"}, resp.Triage.Done)

	select {
	case payload := <-client:
		assert.Contains(t, string(payload), sse.EventTriageUpdated)
	case <-time.After(2 * time.Second):
		t.Fatal("no triage_updated event")
	}
}

func TestSnoozeValidatesPreset(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.call(http.MethodPost, "/api/emails/u1/snooze", `{"preset":"next_year"}`, "s1",
		map[string]string{"id": "u1"}, f.handler.Snooze)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.call(http.MethodPost, "/api/emails/u1/snooze", `{"preset":"tomorrow_9"}`, "s1",
		map[string]string{"id": "u1"}, f.handler.Snooze)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Moved to Snoozed.", decodeMap(t, rec)["message"])

	entry, ok := f.dashboard.Triage().Snoozed.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "2024-01-02T09:00:00.000Z", entry.Until)
	assert.Equal(t, model.SnoozeTomorrow9, entry.Preset)
}

func TestRefreshFailureIsBadGateway(t *testing.T) {
	f := newFixture(t, errors.New("connection refused"))

	rec := f.call(http.MethodPost, "/api/refresh", "", "s1", nil, f.handler.Refresh)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = f.call(http.MethodGet, "/api/triage", "", "s1", nil, f.handler.GetTriage)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"done":[],"ignored":[],"snoozed":{}}`, rec.Body.String())
}
