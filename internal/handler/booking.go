package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kindredpm/repair-booking/internal/cache"
	"github.com/kindredpm/repair-booking/internal/model"
	"github.com/kindredpm/repair-booking/internal/repository"
	"github.com/kindredpm/repair-booking/internal/service"
)

// BookingHandler exposes the booking engine's operations over HTTP.
// Request validation (date format, catalogue membership, required
// fields) happens here, before anything reaches the service; engine
// failures come back as sentinel errors and are mapped to status codes
// with plain {error} bodies.
type BookingHandler struct {
	svc   *service.BookingService
	avail *cache.Availability
}

// NewBookingHandler constructs a BookingHandler.  The availability
// cache may be backed by a nil Redis client, in which case it is inert.
func NewBookingHandler(svc *service.BookingService, avail *cache.Availability) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{svc: svc, avail: avail}
}

// validDate reports whether s is a calendar date in ISO form.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// repairMap flattens a repair into the wire representation shared by
// all operations.  Field names follow the tool-call contract.
func repairMap(rep *model.Repair) echo.Map {
	return echo.Map{
		"ticket_id":         rep.TicketID,
		"name":              rep.Name,
		"address":           rep.Address,
		"date":              rep.Date,
		"time_slot":         rep.TimeSlot,
		"issue_type":        rep.IssueType,
		"issue_description": rep.IssueDescription,
		"email":             rep.Email,
		"status":            rep.Status,
	}
}

// CheckAvailability handles GET /v1/availability?date=YYYY-MM-DD.  It
// returns the open slots for the date, or an empty list with a
// human-readable message when the date is fully booked or outside the
// rolling window.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	date := c.QueryParam("date")
	if !validDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	ctx := c.Request().Context()

	slots, hit := h.avail.Get(ctx, date)
	if !hit {
		av, err := h.svc.CheckAvailability(ctx, date)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		slots = av.Slots
		h.avail.Set(ctx, date, slots)
	}

	if len(slots) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"date":            date,
			"available_slots": []string{},
			"message":         service.NoSlotsMessage(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "available_slots": slots})
}

// Schedule handles POST /v1/repairs.  On a slot conflict it returns 409
// with the conflict message and leaves the store untouched.
func (h *BookingHandler) Schedule(c echo.Context) error {
	var body struct {
		Name             string `json:"name"`
		Address          string `json:"address"`
		Date             string `json:"date"`
		TimeSlot         string `json:"time_slot"`
		IssueType        string `json:"issue_type"`
		IssueDescription string `json:"issue_description"`
		Email            string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" || body.Address == "" || body.IssueDescription == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, address and issue_description are required"})
	}
	if !validDate(body.Date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	if !model.ValidTimeSlot(body.TimeSlot) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown time_slot"})
	}
	if !model.ValidIssueType(body.IssueType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown issue_type"})
	}

	ctx := c.Request().Context()
	res, err := h.svc.Schedule(ctx, service.ScheduleRequest{
		Name:             body.Name,
		Address:          body.Address,
		Date:             body.Date,
		TimeSlot:         body.TimeSlot,
		IssueType:        body.IssueType,
		IssueDescription: body.IssueDescription,
		Email:            body.Email,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSlotUnavailable) {
			return c.JSON(http.StatusConflict, echo.Map{"error": service.SlotConflictMessage()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.avail.Invalidate(ctx, body.Date)

	out := repairMap(res.Repair)
	out["message"] = res.Message
	out["email_status"] = res.EmailStatus
	return c.JSON(http.StatusCreated, out)
}

// CheckStatus handles GET /v1/repairs/:ticket_id.  Pure read.
func (h *BookingHandler) CheckStatus(c echo.Context) error {
	rep, err := h.svc.CheckStatus(c.Request().Context(), c.Param("ticket_id"))
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": service.TicketNotFoundMessage()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, repairMap(rep))
}

// Cancel handles DELETE /v1/repairs/:ticket_id.  Cancellation is
// one-way: a second cancel of the same ticket returns 409.
func (h *BookingHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	res, err := h.svc.Cancel(ctx, c.Param("ticket_id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTicketNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": service.TicketNotFoundMessage()})
		case errors.Is(err, repository.ErrAlreadyCancelled):
			return c.JSON(http.StatusConflict, echo.Map{"error": service.AlreadyCancelledMessage()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	h.avail.Invalidate(ctx, res.Repair.Date)

	out := repairMap(res.Repair)
	out["message"] = res.Message
	out["email_status"] = res.EmailStatus
	return c.JSON(http.StatusOK, out)
}

// QuickFix handles GET /v1/quickfix/:issue_type.  Static lookup of the
// emergency measures for an issue type; no store access.
func (h *BookingHandler) QuickFix(c echo.Context) error {
	issueType := c.Param("issue_type")
	instructions, ok := service.QuickFix(issueType)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": service.QuickFixUnsupportedMessage(issueType)})
	}
	return c.JSON(http.StatusOK, echo.Map{"instructions": instructions})
}
