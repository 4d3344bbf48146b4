package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/nivaran/internal/geolocation"
	"github.com/UnknownOlympus/nivaran/internal/locator"
	"github.com/UnknownOlympus/nivaran/internal/report"
	"github.com/UnknownOlympus/nivaran/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var errFixRequired = errors.New("latitude and longitude are required unless an error is reported")

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgFormNotFound     = "form session not found"
	msgDetectInProgress = "location detection already in progress"
)

// Handler serves the report form sessions.
type Handler struct {
	log      *slog.Logger
	sessions *service.SessionService
	reports  *report.Service
	val      *validator.Validate
}

// NewHandler creates a form handler.
func NewHandler(log *slog.Logger, sessions *service.SessionService, reports *report.Service) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		reports:  reports,
		val:      validator.New(),
	}
}

// RegisterRoutes mounts the form endpoints on group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.CreateForm)
	group.GET("/:id", h.GetForm)
	group.DELETE("/:id", h.DeleteForm)
	group.POST("/:id/input", h.Input)
	group.POST("/:id/focus", h.Focus)
	group.POST("/:id/blur", h.Blur)
	group.POST("/:id/pointer", h.Pointer)
	group.POST("/:id/select", h.Select)
	group.POST("/:id/detect", h.Detect)
	group.POST("/:id/submit", h.Submit)
}

// CreateForm opens a new report form.
// POST /api/v1/forms
func (h *Handler) CreateForm(c *gin.Context) {
	session := h.sessions.Create(c.Request.Context())
	c.JSON(http.StatusCreated, createFormResponse{ID: session.ID})
}

// GetForm returns the form state and the pending notices.
// GET /api/v1/forms/:id
func (h *Handler) GetForm(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateOf(session))
}

// DeleteForm abandons the form.
// DELETE /api/v1/forms/:id
func (h *Handler) DeleteForm(c *gin.Context) {
	if err := h.sessions.Close(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: msgFormNotFound})
		return
	}
	c.Status(http.StatusNoContent)
}

// Input records the text typed into the location field.
// POST /api/v1/forms/:id/input
func (h *Handler) Input(c *gin.Context) {
	var req inputRequest
	if !h.bind(c, &req) {
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.Field.OnTextInput(req.Text)
	c.JSON(http.StatusOK, stateOf(session))
}

// Focus records the location input gaining focus.
// POST /api/v1/forms/:id/focus
func (h *Handler) Focus(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.Field.OnFocus()
	c.JSON(http.StatusOK, stateOf(session))
}

// Blur records focus leaving the location input and the suggestion overlay.
// POST /api/v1/forms/:id/blur
func (h *Handler) Blur(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.Field.OnBlur()
	c.JSON(http.StatusOK, stateOf(session))
}

// Pointer records a pointer event on the input, the overlay or elsewhere on the page.
// POST /api/v1/forms/:id/pointer
func (h *Handler) Pointer(c *gin.Context) {
	var req pointerRequest
	if !h.bind(c, &req) {
		return
	}
	target, err := locator.ParseTarget(req.Target)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.Field.OnPointerDown(target)
	c.JSON(http.StatusOK, stateOf(session))
}

// Select commits a suggestion.
// POST /api/v1/forms/:id/select
func (h *Handler) Select(c *gin.Context) {
	var req selectRequest
	if !h.bind(c, &req) {
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.Field.OnSuggestionSelected(req.Suggestion)
	c.JSON(http.StatusOK, stateOf(session))
}

// Detect resolves the position reported by the client. The result arrives
// asynchronously and is visible through GetForm.
// POST /api/v1/forms/:id/detect
func (h *Handler) Detect(c *gin.Context) {
	var req detectRequest
	if !h.bind(c, &req) {
		return
	}
	source, err := sourceOf(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}

	err = session.Field.OnDetectLocationRequested(source)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, stateOf(session))
	case errors.Is(err, locator.ErrDetectInProgress):
		c.JSON(http.StatusConflict, errorResponse{Error: msgDetectInProgress})
	case errors.Is(err, locator.ErrCapabilityAbsent):
		// The notice explains the outcome; the form stays usable.
		c.JSON(http.StatusOK, stateOf(session))
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusNotFound, errorResponse{Error: msgFormNotFound})
	default:
		h.log.ErrorContext(c.Request.Context(), "Detect request failed", "session", session.ID, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// Submit sends the report with the resolved location and closes the form.
// POST /api/v1/forms/:id/submit
func (h *Handler) Submit(c *gin.Context) {
	var sub report.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidRequest})
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}

	ack, err := h.reports.Submit(c.Request.Context(), sub, session.Field.Resolved())
	switch {
	case errors.Is(err, report.ErrImageRequired):
		c.JSON(http.StatusBadRequest, errorResponse{Error: report.MessageImageRequired})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err = h.sessions.Close(c.Request.Context(), session.ID); err != nil {
		h.log.WarnContext(c.Request.Context(), "Form session already closed", "session", session.ID)
	}
	c.JSON(http.StatusCreated, ack)
}

// session resolves the :id parameter and writes a 404 when the session does not exist.
func (h *Handler) session(c *gin.Context) (*service.Session, bool) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: msgFormNotFound})
		return nil, false
	}
	return session, true
}

// bind decodes and validates the JSON body, writing a 400 on failure.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidRequest})
		return false
	}
	if err := h.val.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgValidationFailed + ": " + err.Error()})
		return false
	}
	return true
}

func stateOf(session *service.Session) formStateResponse {
	return formStateResponse{
		ID:       session.ID,
		Snapshot: session.Field.Snapshot(),
		Notices:  session.Notices(),
	}
}

func sourceOf(req detectRequest) (locator.PositionSource, error) {
	if req.Error != "" {
		return geolocation.FromFailure(req.Error)
	}
	if req.Latitude == nil || req.Longitude == nil {
		return nil, errFixRequired
	}
	return geolocation.FromFix(*req.Latitude, *req.Longitude)
}
