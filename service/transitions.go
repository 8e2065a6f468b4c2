package service

import (
	"context"
	"leadboard/models"
	"leadboard/storage"
	"leadboard/utils"
)

// TransitionService applies status changes and other writes on behalf of a
// user. Any enumerated status may follow any other; concurrent writes to the
// same row are last-write-wins.
type TransitionService struct {
	campaigns CampaignStore
	leads     LeadStore
}

// NewTransitionService creates a new transition service
func NewTransitionService(campaigns CampaignStore, leads LeadStore) *TransitionService {
	return &TransitionService{
		campaigns: campaigns,
		leads:     leads,
	}
}

// UpdateLeadStatus sets the status of a lead owned by userID and returns the stored lead
func (s *TransitionService) UpdateLeadStatus(ctx context.Context, userID string, leadID int64, status models.LeadStatus) (*models.LeadView, error) {
	if _, err := models.ParseLeadStatus(string(status)); err != nil {
		return nil, &utils.ValidationError{Field: "status", Message: err.Error()}
	}
	if _, err := s.ownedLead(ctx, userID, leadID); err != nil {
		return nil, err
	}

	// The update is scoped by owner, so a lead reassigned in between is not touched.
	if err := s.leads.UpdateStatus(ctx, userID, leadID, status); err != nil {
		return nil, storeError("update lead status", err)
	}

	lead, err := s.leads.Get(ctx, leadID)
	if err != nil {
		return nil, storeError("reload lead", err)
	}
	utils.Log.WithFields(map[string]interface{}{"user": userID, "lead": leadID, "status": status}).Debug("Lead status updated")
	return lead, nil
}

// UpdateCampaign renames a campaign and/or changes its status
func (s *TransitionService) UpdateCampaign(ctx context.Context, userID string, id int64, req models.UpdateCampaignRequest) (*models.CampaignSummary, error) {
	if req.Status != nil {
		if _, err := models.ParseCampaignStatus(string(*req.Status)); err != nil {
			return nil, &utils.ValidationError{Field: "status", Message: err.Error()}
		}
	}

	c, err := s.campaigns.Get(ctx, id)
	if err != nil {
		return nil, storeError("get campaign", err)
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}

	updated, err := s.campaigns.Update(ctx, userID, id, storage.CampaignPatch{Name: req.Name, Status: req.Status})
	if err != nil {
		return nil, storeError("update campaign", err)
	}

	leads, err := s.leads.ListByCampaign(ctx, id)
	if err != nil {
		return nil, storeError("list campaign leads", err)
	}
	return &models.CampaignSummary{
		Campaign:        *updated,
		CampaignMetrics: models.ComputeMetrics(leads),
	}, nil
}

// CreateLead adds a lead to a campaign owned by userID. req must be validated.
func (s *TransitionService) CreateLead(ctx context.Context, userID string, req models.CreateLeadRequest) (*models.LeadView, error) {
	c, err := s.campaigns.Get(ctx, req.CampaignID)
	if err != nil {
		return nil, storeError("get campaign", err)
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}

	lead := req.Lead(userID)
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, storeError("create lead", err)
	}
	return &models.LeadView{
		Lead:     *lead,
		Campaign: models.CampaignRef{ID: c.ID, Name: c.Name},
	}, nil
}

// DeleteLead removes a lead owned by userID
func (s *TransitionService) DeleteLead(ctx context.Context, userID string, id int64) error {
	if _, err := s.ownedLead(ctx, userID, id); err != nil {
		return err
	}
	if err := s.leads.Delete(ctx, userID, id); err != nil {
		return storeError("delete lead", err)
	}
	return nil
}

func (s *TransitionService) ownedLead(ctx context.Context, userID string, id int64) (*models.LeadView, error) {
	lead, err := s.leads.Get(ctx, id)
	if err != nil {
		return nil, storeError("get lead", err)
	}
	if lead.UserID != userID {
		return nil, ErrForbidden
	}
	return lead, nil
}
