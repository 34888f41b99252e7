package http

import (
	apperrors "welfare-cms/internal/shared/errors"
	"welfare-cms/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// respondError writes the {error, message} body for err. Causes are logged,
// never returned to the client.
func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	status := apperrors.HTTPStatus(err)
	code := "internal_error"
	message := "Internal server error"

	if appErr, ok := apperrors.AsAppError(err); ok {
		code = appErr.Code
		message = appErr.Message
	} else if apperrors.IsNotFound(err) {
		code, message = "not_found", "Not found"
	}

	if status >= fiber.StatusInternalServerError {
		log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"path":   c.Path(),
			"method": c.Method(),
			"error":  err.Error(),
		}).Error("Request failed")
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "invalid_request",
		"message": message,
	})
}
