package api

import (
	"leadboard/middleware"
	"leadboard/service"
	"leadboard/utils"

	"github.com/gofiber/fiber/v2"
)

// DevHandler serves development-only routes
type DevHandler struct {
	seeder *service.Seeder
}

// NewDevHandler creates a new dev handler
func NewDevHandler(seeder *service.Seeder) *DevHandler {
	return &DevHandler{seeder: seeder}
}

// Seed fills the user's account with sample campaigns and leads
func (h *DevHandler) Seed(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	count, err := intQuery(c, "count", service.DefaultSeedLeads)
	if err != nil || count < 1 || count > 1000 {
		return utils.BadRequestError("Invalid count", err)
	}

	res, err := h.seeder.Seed(c.UserContext(), userID, count)
	if err != nil {
		return serviceError(err, "error_404")
	}

	return c.JSON(fiber.Map{
		"message": utils.TPlural(middleware.Localizer(c), "seed_result", res.Leads, map[string]interface{}{
			"Campaigns": res.Campaigns,
			"Count":     res.Leads,
		}),
		"campaigns": res.Campaigns,
		"leads":     res.Leads,
	})
}
