package handler

import (
	"errors"
	"net/http"
	"time"

	"inbox-triage/internal/model"
	"inbox-triage/internal/service"
	"inbox-triage/internal/session"
	"inbox-triage/internal/sse"
	"inbox-triage/internal/triage"

	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	dashboard  service.DashboardService
	tracker    *session.Tracker
	sseManager *sse.SSEManager
	logger     echo.Logger
	now        func() time.Time
}

func NewDashboardHandler(dashboard service.DashboardService, tracker *session.Tracker, sseManager *sse.SSEManager, logger echo.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard:  dashboard,
		tracker:    tracker,
		sseManager: sseManager,
		logger:     logger,
		now:        time.Now,
	}
}

// EmailDetail is the payload shown when a card is opened
type EmailDetail struct {
	Email           model.EmailItem `json:"email"`
	Category        model.Category  `json:"category"`
	Sender          string          `json:"sender"`
	Confidence      float64         `json:"confidence"`
	ConfidenceLabel string          `json:"confidence_label"`
	Status          string          `json:"status"`
}

type ActionResponse struct {
	Triage  model.TriageState `json:"triage"`
	Message string            `json:"message"`
}

type snoozeRequest struct {
	Preset model.SnoozePreset `json:"preset"`
}

func sessionID(c echo.Context) string {
	id, _ := c.Get(session.ContextKey).(string)
	return id
}

// GetBoard renders the projected dashboard for the current session
func (h *DashboardHandler) GetBoard(c echo.Context) error {
	viewed := h.tracker.Viewed(sessionID(c))

	board, err := h.dashboard.Board(c.Request().Context(), viewed, h.now())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, board)
}

// GetEmail opens an email and marks it viewed for the session
func (h *DashboardHandler) GetEmail(c echo.Context) error {
	emailID := c.Param("id")
	category := model.Category(c.QueryParam("category"))

	item, found, err := h.dashboard.FindEmail(category, emailID)
	if err != nil {
		return h.errorResponse(c, err)
	}

	h.tracker.MarkViewed(sessionID(c), emailID)

	return c.JSON(http.StatusOK, EmailDetail{
		Email:           item,
		Category:        found,
		Sender:          item.DisplaySender(),
		Confidence:      item.ClampedConfidence(),
		ConfidenceLabel: item.ConfidenceLabel(),
		Status:          triageStatus(h.dashboard.Triage(), emailID, h.now()),
	})
}

func triageStatus(state model.TriageState, emailID string, now time.Time) string {
	switch {
	case state.IsDone(emailID):
		return model.StripDone
	case state.IsIgnored(emailID):
		return model.StripIgnored
	}
	if entry, ok := state.Snoozed.Get(emailID); ok && triage.IsSnoozeActive(entry, now) {
		return model.StripSnoozed
	}
	return "inbox"
}

// Action returns a handler applying one of done, ignore or restore
func (h *DashboardHandler) Action(action triage.Action) echo.HandlerFunc {
	return func(c echo.Context) error {
		state, err := h.dashboard.ApplyAction(c.Request().Context(), action, c.Param("id"), h.now())
		if err != nil {
			return h.errorResponse(c, err)
		}
		return h.actionResponse(c, action, state)
	}
}

func (h *DashboardHandler) Snooze(c echo.Context) error {
	var req snoozeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if req.Preset == "" {
		req.Preset = model.SnoozeLaterToday
	}
	if !req.Preset.IsKnown() {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Unknown snooze preset: " + string(req.Preset),
		})
	}

	state, err := h.dashboard.SnoozeEmail(c.Request().Context(), c.Param("id"), req.Preset, h.now())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return h.actionResponse(c, triage.ActionSnooze, state)
}

func (h *DashboardHandler) actionResponse(c echo.Context, action triage.Action, state model.TriageState) error {
	message := service.ToastMessage(action)
	h.sseManager.Broadcast(sse.EventTriageUpdated, ActionResponse{Triage: state, Message: message})
	return c.JSON(http.StatusOK, ActionResponse{Triage: state, Message: message})
}

// Refresh reloads the dashboard model from its source
func (h *DashboardHandler) Refresh(c echo.Context) error {
	if err := h.dashboard.Refresh(c.Request().Context(), h.now()); err != nil {
		h.logger.Error("Failed to refresh dashboard:", err)
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": err.Error(),
		})
	}

	h.sseManager.Broadcast(sse.EventModelRefreshed, map[string]string{"message": service.RefreshToast})
	return c.JSON(http.StatusOK, map[string]string{
		"message": service.RefreshToast,
	})
}

func (h *DashboardHandler) GetTriage(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboard.Triage())
}

func (h *DashboardHandler) errorResponse(c echo.Context, err error) error {
	var storeErr *service.StoreError
	switch {
	case errors.Is(err, service.ErrModelNotLoaded):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrEmailNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Email not found",
		})
	case errors.Is(err, service.ErrUnknownAction):
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	case errors.As(err, &storeErr):
		h.logger.Error("Triage store failure:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save triage state",
		})
	default:
		h.logger.Error("Dashboard request failed:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}
}
