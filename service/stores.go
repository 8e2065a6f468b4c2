package service

import (
	"context"
	"leadboard/models"
	"leadboard/storage"
)

// CampaignStore is the campaign persistence the services depend on
type CampaignStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Campaign, error)
	Get(ctx context.Context, id int64) (*models.Campaign, error)
	Create(ctx context.Context, c *models.Campaign) error
	Update(ctx context.Context, userID string, id int64, patch storage.CampaignPatch) (*models.Campaign, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// LeadStore is the lead persistence the services depend on
type LeadStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.LeadView, error)
	ListByCampaign(ctx context.Context, campaignID int64) ([]models.Lead, error)
	Get(ctx context.Context, id int64) (*models.LeadView, error)
	Create(ctx context.Context, lead *models.Lead) error
	CreateBatch(ctx context.Context, leads []*models.Lead) error
	UpdateStatus(ctx context.Context, userID string, id int64, status models.LeadStatus) error
	Delete(ctx context.Context, userID string, id int64) error
}

var (
	_ CampaignStore = (*storage.CampaignStorage)(nil)
	_ LeadStore     = (*storage.LeadStorage)(nil)
)
