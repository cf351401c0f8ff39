package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// ReservationHandler serves the authenticated user endpoints: reserve,
// cancel and the personal summary page.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Aggregates   *service.AggregateService
}

func NewReservationHandler(reservations *service.ReservationService, aggregates *service.AggregateService) *ReservationHandler {
	if reservations == nil || aggregates == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations, Aggregates: aggregates}
}

// Reserve handles POST /v1/events/:id/reserve.  On success it returns
// 202 with the reservation ID and the assigned seat; a full rank is a
// 409 sold_out, which callers are free to retry.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login_required"})
	}
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || eventID <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid_event"})
	}
	var body struct {
		SheetRank string `json:"sheet_rank"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	res, sheet, err := h.Reservations.Reserve(c.Request().Context(), eventID, body.SheetRank, userID)
	if err != nil {
		// invalid_rank is a 400 here, unlike the lookup-style 404s.
		if err == service.ErrInvalidRank {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{
		"id":         res.ID,
		"sheet_rank": sheet.Rank,
		"sheet_num":  sheet.Num,
	})
}

// Cancel handles DELETE /v1/events/:id/sheets/:rank/:num/reservation.
// Only the holder may cancel; the seat goes straight back on sale.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login_required"})
	}
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || eventID <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid_event"})
	}
	rank := c.Param("rank")
	num, err := strconv.ParseInt(c.Param("num"), 10, 64)
	if err != nil || num <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid_sheet"})
	}

	if err := h.Reservations.Cancel(c.Request().Context(), eventID, rank, num, userID); err != nil {
		// On the cancel path an unknown rank is a failed lookup.
		if err == service.ErrInvalidRank {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me: recent reservations, lifetime spend and
// recently touched events for the authenticated user.
func (h *ReservationHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login_required"})
	}
	sum, err := h.Aggregates.SummarizeUser(c.Request().Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}
