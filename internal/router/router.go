// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kindredpm/repair-booking/internal/handler"
)

// RegisterRoutes wires the health check and the booking operations onto
// the provided Echo instance.  The /v1 routes mirror the tool-call
// contract used by the external orchestrator: flat JSON in, flat JSON
// out, with errors as {error} bodies.
func RegisterRoutes(e *echo.Echo, b *handler.BookingHandler) {
	// Liveness probe for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")
	// Availability for a date within the rolling window.
	v1.GET("/availability", b.CheckAvailability)
	// Schedule a repair: claims the slot and issues the ticket.
	v1.POST("/repairs", b.Schedule)
	// Point lookup of a ticket.
	v1.GET("/repairs/:ticket_id", b.CheckStatus)
	// Cancel a scheduled repair and release its slot.
	v1.DELETE("/repairs/:ticket_id", b.Cancel)
	// Emergency-measure instructions per issue type.
	v1.GET("/quickfix/:issue_type", b.QuickFix)
}
