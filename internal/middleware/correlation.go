package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CorrelationID tags every request with an identifier so a student's report
// ("my test froze at 14:03") can be matched to the log lines it produced.
// An incoming X-Correlation-ID or X-Request-ID is honoured, otherwise a
// fresh UUID is minted, and the chosen value is echoed back in the response.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get("X-Correlation-ID"))
		if id == "" {
			id = strings.TrimSpace(c.Get("X-Request-ID"))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("correlation_id", id)
		c.Set("X-Correlation-ID", id)

		return c.Next()
	}
}

// GetCorrelationID returns the identifier bound by CorrelationID, or "" when
// the middleware did not run for this request.
func GetCorrelationID(c *fiber.Ctx) string {
	id, _ := c.Locals("correlation_id").(string)
	return id
}
