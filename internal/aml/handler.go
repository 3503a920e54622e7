package aml

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the monitoring endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs the AML HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Alerts lists the caller's alerts, newest first.
func (h *Handler) Alerts(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	alerts, err := h.service.Alerts(c.UserContext(), uid, c.QueryInt("limit", 20))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	items := make([]fiber.Map, 0, len(alerts))
	for _, alert := range alerts {
		items = append(items, fiber.Map{
			"id":          alert.ID,
			"kind":        alert.Kind,
			"amount_fils": alert.AmountFils,
			"currency":    alert.Currency,
			"note":        alert.Note,
			"status":      alert.Status,
			"created_at":  alert.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"alerts": items, "total": len(items)})
}

// Dashboard summarizes alert counts by status.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	counts, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"total_alerts": total,
		"open":         counts[StatusOpen],
		"reviewed":     counts[StatusReviewed],
		"by_status":    counts,
	})
}
