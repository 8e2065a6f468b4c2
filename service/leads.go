package service

import (
	"context"
	"leadboard/models"
	"leadboard/pipeline"
)

// LeadQuery selects one page of the user's filtered and sorted leads
type LeadQuery struct {
	Pipeline pipeline.Config
	Page     int
	Limit    int
}

// LeadService serves the incremental lead listing
type LeadService struct {
	leads LeadStore
}

// NewLeadService creates a new lead service
func NewLeadService(leads LeadStore) *LeadService {
	return &LeadService{leads: leads}
}

// ListLeads runs the user's leads through the pipeline and returns the
// requested page. Without a sort key, most recently contacted leads come first.
func (s *LeadService) ListLeads(ctx context.Context, userID string, q LeadQuery) (*models.LeadPage, error) {
	leads, err := s.leads.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError("list leads", err)
	}

	items, next := pipeline.Page(pipeline.Apply(leads, q.Pipeline), q.Page, q.Limit)
	return models.NewLeadPage(items, next), nil
}

// GetLead returns a lead owned by userID
func (s *LeadService) GetLead(ctx context.Context, userID string, id int64) (*models.LeadView, error) {
	lead, err := s.leads.Get(ctx, id)
	if err != nil {
		return nil, storeError("get lead", err)
	}
	if lead.UserID != userID {
		return nil, ErrForbidden
	}
	return lead, nil
}
