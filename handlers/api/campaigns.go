package api

import (
	"leadboard/models"
	"leadboard/service"

	"github.com/gofiber/fiber/v2"
)

// CampaignHandler serves the campaign routes
type CampaignHandler struct {
	campaigns   *service.CampaignService
	transitions *service.TransitionService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaigns *service.CampaignService, transitions *service.TransitionService) *CampaignHandler {
	return &CampaignHandler{
		campaigns:   campaigns,
		transitions: transitions,
	}
}

// ListCampaigns returns the user's campaigns with lead metrics. Without query
// parameters they come in creation order.
func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	cfg, err := pipelineConfig(c, campaignStatusLabel)
	if err != nil {
		return err
	}

	campaigns, err := h.campaigns.QueryCampaigns(c.UserContext(), userID, cfg)
	if err != nil {
		return serviceError(err, "error_campaign_not_found")
	}
	return c.JSON(campaigns)
}

// CreateCampaign creates a campaign for the user
func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.CreateCampaignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	campaign, err := h.campaigns.CreateCampaign(c.UserContext(), userID, req)
	if err != nil {
		return serviceError(err, "error_campaign_not_found")
	}
	return c.Status(fiber.StatusCreated).JSON(campaign)
}

// GetCampaign returns one campaign with its leads
func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	detail, err := h.campaigns.GetCampaign(c.UserContext(), userID, id)
	if err != nil {
		return serviceError(err, "error_campaign_not_found")
	}
	return c.JSON(detail)
}

// UpdateCampaign renames a campaign or changes its status
func (h *CampaignHandler) UpdateCampaign(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req models.UpdateCampaignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	campaign, err := h.transitions.UpdateCampaign(c.UserContext(), userID, id, req)
	if err != nil {
		return serviceError(err, "error_campaign_not_found")
	}
	return c.JSON(campaign)
}

// DeleteCampaign deletes a campaign and its leads
func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.campaigns.DeleteCampaign(c.UserContext(), userID, id); err != nil {
		return serviceError(err, "error_campaign_not_found")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Summary returns the dashboard summary cards
func (h *CampaignHandler) Summary(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	summary, err := h.campaigns.Summary(c.UserContext(), userID)
	if err != nil {
		return serviceError(err, "error_404")
	}
	return c.JSON(summary)
}
