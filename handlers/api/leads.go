package api

import (
	"leadboard/config"
	"leadboard/models"
	"leadboard/service"

	"github.com/gofiber/fiber/v2"
)

// LeadHandler serves the lead routes
type LeadHandler struct {
	leads       *service.LeadService
	transitions *service.TransitionService
	pagination  config.PaginationConfig
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leads *service.LeadService, transitions *service.TransitionService, pagination config.PaginationConfig) *LeadHandler {
	return &LeadHandler{
		leads:       leads,
		transitions: transitions,
		pagination:  pagination,
	}
}

// ListLeads returns one page of the user's leads: {items, nextPage}
func (h *LeadHandler) ListLeads(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	cfg, err := pipelineConfig(c, leadStatusLabel)
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c, h.pagination)
	if err != nil {
		return err
	}

	result, err := h.leads.ListLeads(c.UserContext(), userID, service.LeadQuery{
		Pipeline: cfg,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return serviceError(err, "error_lead_not_found")
	}
	return c.JSON(result)
}

// GetLead returns one lead
func (h *LeadHandler) GetLead(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	lead, err := h.leads.GetLead(c.UserContext(), userID, id)
	if err != nil {
		return serviceError(err, "error_lead_not_found")
	}
	return c.JSON(lead)
}

// CreateLead adds a lead to one of the user's campaigns
func (h *LeadHandler) CreateLead(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.CreateLeadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	lead, err := h.transitions.CreateLead(c.UserContext(), userID, req)
	if err != nil {
		return serviceError(err, "error_campaign_not_found")
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

// UpdateLeadStatus moves a lead to another status
func (h *LeadHandler) UpdateLeadStatus(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req models.UpdateLeadStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	lead, err := h.transitions.UpdateLeadStatus(c.UserContext(), userID, id, req.Status)
	if err != nil {
		return serviceError(err, "error_lead_not_found")
	}
	return c.JSON(lead)
}

// DeleteLead removes a lead
func (h *LeadHandler) DeleteLead(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.transitions.DeleteLead(c.UserContext(), userID, id); err != nil {
		return serviceError(err, "error_lead_not_found")
	}
	return c.JSON(fiber.Map{"success": true})
}
