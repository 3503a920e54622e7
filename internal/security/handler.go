// Package security serves the device-security endpoints. Biometric and PIN
// enrollment run on the client; the backend only reports and acknowledges
// state so mobile builds can gate their setup flows.
package security

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the device-security endpoints.
type Handler struct{}

// NewHandler constructs the security HTTP handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Status reports the caller's security posture.
func (h *Handler) Status(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user_id":            uid,
		"biometric_enabled":  false,
		"pin_set":            false,
		"device_registered":  true,
		"security_level":     "standard",
		"last_security_scan": time.Now().UTC().Format(time.RFC3339),
	})
}

type initializeRequest struct {
	SkipBiometric bool `json:"skip_biometric"`
}

// Initialize acknowledges client-side security setup.
func (h *Handler) Initialize(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req initializeRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":           "security initialized",
		"user_id":           uid,
		"biometric_enabled": false,
		"skip_biometric":    req.SkipBiometric,
		"initialized_at":    time.Now().UTC().Format(time.RFC3339),
	})
}
