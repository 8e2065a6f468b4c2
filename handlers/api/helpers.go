package api

import (
	"errors"
	"leadboard/middleware"
	"leadboard/service"
	"leadboard/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// validator is implemented by every request schema
type validator interface {
	Validate() error
}

// ErrorHandler renders every error as {"error": message}. Messages carrying an
// i18n key are localized; 5xx causes are logged and never shown.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := utils.T(middleware.Localizer(c), "error_500")

	var appErr *utils.AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
		if appErr.Key != "" {
			message = utils.TWithData(middleware.Localizer(c), appErr.Key, appErr.Context)
		}
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		utils.Log.WithFields(map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("Request failed: %v", err)
	} else {
		utils.Log.Debug("Request rejected (%d) %s: %v", code, c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// serviceError translates service failures. Foreign entities are reported as
// missing so that ids of other users cannot be probed.
func serviceError(err error, notFoundKey string) error {
	if ve, ok := utils.AsValidationError(err); ok {
		return utils.NewAppError(fiber.StatusBadRequest, ve.Error(), ve)
	}
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrForbidden):
		return utils.NotFoundError("Not found", err).WithKey(notFoundKey)
	case errors.Is(err, service.ErrStoreUnavailable):
		return utils.StoreUnavailableError(err)
	}
	return utils.InternalServerError("Internal server error", err)
}

// currentUser returns the acting user's id set by middleware.Identity
func currentUser(c *fiber.Ctx) (string, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return "", utils.UnauthorizedError("User not authenticated", nil)
	}
	return userID, nil
}

// parseBody decodes and validates a JSON request body
func parseBody(c *fiber.Ctx, req validator) error {
	if err := c.BodyParser(req); err != nil {
		return utils.BadRequestError("Invalid request body", err)
	}
	if err := req.Validate(); err != nil {
		return serviceError(err, "error_404")
	}
	return nil
}

// paramID parses the :id route parameter
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.BadRequestError("Invalid id", err)
	}
	return id, nil
}
