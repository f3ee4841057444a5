package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/adebimpe-ng/course-portal-api/internal/utils"
)

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

func wantsCSV(c *fiber.Ctx) bool {
	return strings.EqualFold(strings.TrimSpace(c.Query("format")), "csv")
}

// sendCSV streams an admin export as a dated attachment.
func sendCSV(c *fiber.Ctx, name string, export func(ctx context.Context, w io.Writer) error) error {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

	var buf strings.Builder
	if err := export(c.Context(), &buf); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export csv")
	}

	return c.SendString(buf.String())
}
