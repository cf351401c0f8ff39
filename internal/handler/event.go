package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// EventHandler serves the public event endpoints.  Responses are
// sanitized: the base price and lifecycle flags are admin-only.
type EventHandler struct {
	Events     *service.EventService
	Aggregates *service.AggregateService
}

func NewEventHandler(events *service.EventService, aggregates *service.AggregateService) *EventHandler {
	if events == nil || aggregates == nil {
		panic("nil service passed to NewEventHandler")
	}
	return &EventHandler{Events: events, Aggregates: aggregates}
}

// ListEvents handles GET /v1/events.  It returns every public event
// with per-rank totals and remaining counts.
func (h *EventHandler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.Events.List(ctx, true)
	if err != nil {
		return respondServiceError(c, err)
	}
	out := make([]echo.Map, 0, len(events))
	for _, ev := range events {
		sum, err := h.Aggregates.Summarize(ctx, ev.ID)
		if err != nil {
			return respondServiceError(c, err)
		}
		out = append(out, sanitizeSummary(sum))
	}
	return c.JSON(http.StatusOK, out)
}

// GetEvent handles GET /v1/events/:id.  Non-public events 404 so
// drafts stay invisible.  When the request carries a valid token the
// caller's own seats are marked "mine".
func (h *EventHandler) GetEvent(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || eventID <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
	}
	det, err := h.Aggregates.Detail(c.Request().Context(), eventID, optionalUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	if !det.Public {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
	}
	return c.JSON(http.StatusOK, sanitizeDetail(det))
}
