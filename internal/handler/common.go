// Package handler implements the HTTP endpoints.  Handlers bind and
// validate input, call the service layer and translate its sentinel
// errors into the API's status codes; they never touch SQL themselves.
package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// getUserID extracts the authenticated subject placed in context by the
// JWT middleware.
func getUserID(c echo.Context) (int64, error) {
	if id, ok := c.Get("user_id").(int64); ok && id > 0 {
		return id, nil
	}
	return 0, errors.New("no user_id in context")
}

// optionalUserID returns the subject when present and 0 otherwise.
func optionalUserID(c echo.Context) int64 {
	if id, ok := c.Get("user_id").(int64); ok {
		return id
	}
	return 0
}

// respondServiceError maps service sentinels onto the API's error
// responses.  The sentinel message doubles as the wire error code.
// Unknown errors are logged and surfaced as a generic internal error
// so storage detail never leaks to callers.
func respondServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidEvent),
		errors.Is(err, service.ErrInvalidSheet),
		errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSoldOut):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotReserved),
		errors.Is(err, service.ErrClosedEvent),
		errors.Is(err, service.ErrClosePublicEvent):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotPermitted):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAuthenticationFailed):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	log.Printf("handler: internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal"})
}

// sanitizeSummary strips the admin-only fields (base price, lifecycle
// flags) from an event summary for public responses.
func sanitizeSummary(s *model.EventSummary) echo.Map {
	return echo.Map{
		"id":      s.ID,
		"title":   s.Title,
		"total":   s.Total,
		"remains": s.Remains,
		"sheets":  s.Sheets,
	}
}

// sanitizeDetail does the same for the seat-level event view.
func sanitizeDetail(d *model.EventDetail) echo.Map {
	return echo.Map{
		"id":      d.ID,
		"title":   d.Title,
		"total":   d.Total,
		"remains": d.Remains,
		"sheets":  d.Sheets,
	}
}
