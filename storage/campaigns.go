package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"leadboard/models"
	"time"

	"github.com/jmoiron/sqlx"
)

// CampaignStorage manages campaign persistence
type CampaignStorage struct {
	db *sqlx.DB
}

// NewCampaignStorage creates a new campaign storage instance
func NewCampaignStorage(db *sqlx.DB) *CampaignStorage {
	return &CampaignStorage{db: db}
}

const campaignColumns = `id, name, status, description, created_at, user_id`

// ListByUser returns the user's campaigns in insertion order
func (s *CampaignStorage) ListByUser(ctx context.Context, userID string) ([]models.Campaign, error) {
	query := s.db.Rebind(`SELECT ` + campaignColumns + ` FROM campaigns WHERE user_id = ? ORDER BY id`)

	campaigns := []models.Campaign{}
	if err := s.db.SelectContext(ctx, &campaigns, query, userID); err != nil {
		return nil, fmt.Errorf("select campaigns: %w", err)
	}
	return campaigns, nil
}

// Get returns a campaign regardless of owner; callers check ownership
func (s *CampaignStorage) Get(ctx context.Context, id int64) (*models.Campaign, error) {
	var campaign models.Campaign
	query := s.db.Rebind(`SELECT ` + campaignColumns + ` FROM campaigns WHERE id = ?`)
	if err := s.db.GetContext(ctx, &campaign, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get campaign by id: %w", err)
	}
	return &campaign, nil
}

// Create inserts a campaign and fills in its id and creation time
func (s *CampaignStorage) Create(ctx context.Context, c *models.Campaign) error {
	if c.Status == "" {
		c.Status = models.CampaignActive
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	query := s.db.Rebind(`
		INSERT INTO campaigns (name, status, description, created_at, user_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)
	if err := s.db.QueryRowxContext(ctx, query, c.Name, c.Status, c.Description, c.CreatedAt, c.UserID).Scan(&c.ID); err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// CampaignPatch holds the fields of a partial campaign update; nil means unchanged
type CampaignPatch struct {
	Name   *string
	Status *models.CampaignStatus
}

// Update applies a patch to a campaign owned by userID and returns the new row
func (s *CampaignStorage) Update(ctx context.Context, userID string, id int64, patch CampaignPatch) (*models.Campaign, error) {
	var status *string
	if patch.Status != nil {
		st := string(*patch.Status)
		status = &st
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin campaign update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE campaigns
		SET name = COALESCE(?, name), status = COALESCE(?, status)
		WHERE id = ? AND user_id = ?`), patch.Name, status, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	if err := requireRow(res, "update campaign"); err != nil {
		return nil, err
	}

	var campaign models.Campaign
	query := tx.Rebind(`SELECT ` + campaignColumns + ` FROM campaigns WHERE id = ?`)
	if err := tx.GetContext(ctx, &campaign, query, id); err != nil {
		return nil, fmt.Errorf("reload campaign: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit campaign update: %w", err)
	}
	return &campaign, nil
}

// Delete removes a campaign owned by userID. Its leads are removed by the
// ON DELETE CASCADE constraint in the same statement.
func (s *CampaignStorage) Delete(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM campaigns WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	return requireRow(res, "delete campaign")
}
