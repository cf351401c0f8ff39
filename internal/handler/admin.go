package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// AdminHandler serves the administrator endpoints: the event lifecycle
// and the sales ledger exports.  Role enforcement happens in
// middleware; every response here includes the admin-only fields.
type AdminHandler struct {
	Events     *service.EventService
	Aggregates *service.AggregateService
	Reports    *service.ReportService
}

func NewAdminHandler(events *service.EventService, aggregates *service.AggregateService, reports *service.ReportService) *AdminHandler {
	if events == nil || aggregates == nil || reports == nil {
		panic("nil service passed to NewAdminHandler")
	}
	return &AdminHandler{Events: events, Aggregates: aggregates, Reports: reports}
}

// ListEvents handles GET /v1/admin/events: every event, drafts and
// closed ones included, with full aggregates.
func (h *AdminHandler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.Events.List(ctx, false)
	if err != nil {
		return respondServiceError(c, err)
	}
	out := make([]interface{}, 0, len(events))
	for _, ev := range events {
		sum, err := h.Aggregates.Summarize(ctx, ev.ID)
		if err != nil {
			return respondServiceError(c, err)
		}
		out = append(out, sum)
	}
	return c.JSON(http.StatusOK, out)
}

// CreateEvent handles POST /v1/admin/events.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var body struct {
		Title  string `json:"title"`
		Price  int64  `json:"price"`
		Public bool   `json:"public"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Title == "" || body.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/price required"})
	}

	ctx := c.Request().Context()
	ev, err := h.Events.Create(ctx, body.Title, body.Price, body.Public)
	if err != nil {
		return respondServiceError(c, err)
	}
	det, err := h.Aggregates.Detail(ctx, ev.ID, 0)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, det)
}

// GetEvent handles GET /v1/admin/events/:id with the seat-level view,
// visible regardless of the public flag.
func (h *AdminHandler) GetEvent(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || eventID <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
	}
	det, err := h.Aggregates.Detail(c.Request().Context(), eventID, 0)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, det)
}

// EditEvent handles POST /v1/admin/events/:id/actions/edit: the only
// mutation of an event after creation.  publish = public:true, close =
// closed:true; closing implies leaving sale.
func (h *AdminHandler) EditEvent(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || eventID <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
	}
	var body struct {
		Public bool `json:"public"`
		Closed bool `json:"closed"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	if _, err := h.Events.Edit(ctx, eventID, body.Public, body.Closed); err != nil {
		return respondServiceError(c, err)
	}
	det, err := h.Aggregates.Detail(ctx, eventID, 0)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, det)
}

// EventSales handles GET /v1/admin/reports/events/:id/sales.
func (h *AdminHandler) EventSales(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || eventID <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
	}
	return h.writeSalesCSV(c, &eventID)
}

// AllSales handles GET /v1/admin/reports/sales: the ledger across all
// events.
func (h *AdminHandler) AllSales(c echo.Context) error {
	return h.writeSalesCSV(c, nil)
}

// writeSalesCSV streams the export with the fixed column order and
// CRLF line endings downstream consumers expect.
func (h *AdminHandler) writeSalesCSV(c echo.Context, eventID *int64) error {
	records, err := h.Reports.ExportSales(c.Request().Context(), eventID)
	if err != nil {
		return respondServiceError(c, err)
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/csv")
	resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename=report.csv`)
	resp.WriteHeader(http.StatusOK)

	w := csv.NewWriter(resp)
	w.UseCRLF = true
	if err := w.Write(service.SalesHeader); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return nil
}
