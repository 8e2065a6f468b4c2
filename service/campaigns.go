// Package service holds the dashboard's business operations: campaign
// aggregation, lead queries, status transitions and seeding. Every operation
// takes the acting user's id and never returns another user's data.
package service

import (
	"context"
	"leadboard/models"
	"leadboard/pipeline"
	"leadboard/utils"

	"golang.org/x/sync/errgroup"
)

// scanConcurrency bounds the per-campaign lead scans of one listing
const scanConcurrency = 4

// CampaignService aggregates campaigns with their lead metrics
type CampaignService struct {
	campaigns CampaignStore
	leads     LeadStore
}

// NewCampaignService creates a new campaign service
func NewCampaignService(campaigns CampaignStore, leads LeadStore) *CampaignService {
	return &CampaignService{
		campaigns: campaigns,
		leads:     leads,
	}
}

// ListCampaigns returns the user's campaigns in creation order, each with
// metrics computed from its current leads.
func (s *CampaignService) ListCampaigns(ctx context.Context, userID string) ([]models.CampaignSummary, error) {
	campaigns, err := s.campaigns.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError("list campaigns", err)
	}

	summaries := make([]models.CampaignSummary, len(campaigns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for i, c := range campaigns {
		i, c := i, c
		g.Go(func() error {
			leads, err := s.leads.ListByCampaign(gctx, c.ID)
			if err != nil {
				return err
			}
			summaries[i] = models.CampaignSummary{
				Campaign:        c,
				CampaignMetrics: models.ComputeMetrics(leads),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeError("scan campaign leads", err)
	}
	return summaries, nil
}

// QueryCampaigns lists the user's campaigns through the filter/sort pipeline
func (s *CampaignService) QueryCampaigns(ctx context.Context, userID string, cfg pipeline.Config) ([]models.CampaignSummary, error) {
	summaries, err := s.ListCampaigns(ctx, userID)
	if err != nil {
		return nil, err
	}
	return pipeline.Apply(summaries, cfg), nil
}

// GetCampaign returns a campaign owned by userID with its leads and metrics
func (s *CampaignService) GetCampaign(ctx context.Context, userID string, id int64) (*models.CampaignDetail, error) {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	leads, err := s.leads.ListByCampaign(ctx, c.ID)
	if err != nil {
		return nil, storeError("list campaign leads", err)
	}
	return &models.CampaignDetail{
		CampaignSummary: models.CampaignSummary{
			Campaign:        *c,
			CampaignMetrics: models.ComputeMetrics(leads),
		},
		Leads: leads,
	}, nil
}

// CreateCampaign stores a new campaign for userID. req must be validated.
func (s *CampaignService) CreateCampaign(ctx context.Context, userID string, req models.CreateCampaignRequest) (*models.CampaignSummary, error) {
	c := &models.Campaign{
		Name:        req.Name,
		Status:      req.Status,
		Description: req.Description,
		UserID:      userID,
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, storeError("create campaign", err)
	}
	utils.Log.WithFields(map[string]interface{}{"user": userID, "campaign": c.ID}).Info("Campaign created")
	return &models.CampaignSummary{Campaign: *c}, nil
}

// DeleteCampaign removes a campaign and, through the cascade, its leads
func (s *CampaignService) DeleteCampaign(ctx context.Context, userID string, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.campaigns.Delete(ctx, userID, id); err != nil {
		return storeError("delete campaign", err)
	}
	utils.Log.WithFields(map[string]interface{}{"user": userID, "campaign": id}).Info("Campaign deleted")
	return nil
}

// Summary totals the user's campaigns for the dashboard cards
func (s *CampaignService) Summary(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	summaries, err := s.ListCampaigns(ctx, userID)
	if err != nil {
		return nil, err
	}

	sum := &models.DashboardSummary{TotalCampaigns: len(summaries)}
	for _, c := range summaries {
		if c.Status == models.CampaignActive {
			sum.ActiveCampaigns++
		}
		sum.TotalLeads += c.TotalLeads
		sum.TotalResponses += c.SuccessfulLeads
	}
	sum.AvgResponseRate = models.ResponseRate(sum.TotalResponses, sum.TotalLeads)
	return sum, nil
}

// owned loads a campaign and checks that userID owns it
func (s *CampaignService) owned(ctx context.Context, userID string, id int64) (*models.Campaign, error) {
	c, err := s.campaigns.Get(ctx, id)
	if err != nil {
		return nil, storeError("get campaign", err)
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}
	return c, nil
}
