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

// LeadStorage manages lead persistence
type LeadStorage struct {
	db *sqlx.DB
}

// NewLeadStorage creates a new lead storage instance
func NewLeadStorage(db *sqlx.DB) *LeadStorage {
	return &LeadStorage{db: db}
}

const leadColumns = `id, name, role, email, company, avatar_url, status, campaign_id, user_id, last_contact_date, created_at`

const leadViewSelect = `
	SELECT l.id, l.name, l.role, l.email, l.company, l.avatar_url, l.status, l.campaign_id, l.user_id,
		l.last_contact_date, l.created_at, c.id AS "campaign.id", c.name AS "campaign.name"
	FROM leads l
	JOIN campaigns c ON c.id = l.campaign_id`

// ListByUser returns every lead of the user with its campaign name, most
// recently contacted first and never-contacted leads last.
func (s *LeadStorage) ListByUser(ctx context.Context, userID string) ([]models.LeadView, error) {
	query := s.db.Rebind(leadViewSelect + `
		WHERE l.user_id = ?
		ORDER BY (l.last_contact_date IS NULL), l.last_contact_date DESC, l.id DESC`)

	leads := []models.LeadView{}
	if err := s.db.SelectContext(ctx, &leads, query, userID); err != nil {
		return nil, fmt.Errorf("select leads: %w", err)
	}
	return leads, nil
}

// ListByCampaign returns the leads of a campaign in insertion order
func (s *LeadStorage) ListByCampaign(ctx context.Context, campaignID int64) ([]models.Lead, error) {
	query := s.db.Rebind(`SELECT ` + leadColumns + ` FROM leads WHERE campaign_id = ? ORDER BY id`)

	leads := []models.Lead{}
	if err := s.db.SelectContext(ctx, &leads, query, campaignID); err != nil {
		return nil, fmt.Errorf("select campaign leads: %w", err)
	}
	return leads, nil
}

// Get returns a lead with its campaign, regardless of owner
func (s *LeadStorage) Get(ctx context.Context, id int64) (*models.LeadView, error) {
	var lead models.LeadView
	query := s.db.Rebind(leadViewSelect + ` WHERE l.id = ?`)
	if err := s.db.GetContext(ctx, &lead, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get lead by id: %w", err)
	}
	return &lead, nil
}

// Create inserts a lead and fills in its id and creation time
func (s *LeadStorage) Create(ctx context.Context, lead *models.Lead) error {
	return insertLead(ctx, s.db, lead)
}

// CreateBatch inserts leads in one transaction; either all rows land or none
func (s *LeadStorage) CreateBatch(ctx context.Context, leads []*models.Lead) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin lead batch: %w", err)
	}
	defer tx.Rollback()

	for _, lead := range leads {
		if err := insertLead(ctx, tx, lead); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lead batch: %w", err)
	}
	return nil
}

func insertLead(ctx context.Context, q sqlx.QueryerContext, lead *models.Lead) error {
	if lead.Status == "" {
		lead.Status = models.LeadPending
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	query := sqlx.Rebind(sqlx.BindType(driverName(q)), `
		INSERT INTO leads (name, role, email, company, avatar_url, status, campaign_id, user_id, last_contact_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := q.QueryRowxContext(ctx, query,
		lead.Name, lead.Role, lead.Email, lead.Company, lead.AvatarURL, lead.Status,
		lead.CampaignID, lead.UserID, lead.LastContactDate, lead.CreatedAt,
	).Scan(&lead.ID)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// UpdateStatus sets the status of a lead owned by userID
func (s *LeadStorage) UpdateStatus(ctx context.Context, userID string, id int64, status models.LeadStatus) error {
	query := s.db.Rebind(`UPDATE leads SET status = ? WHERE id = ? AND user_id = ?`)
	res, err := s.db.ExecContext(ctx, query, string(status), id, userID)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	return requireRow(res, "update lead status")
}

// Delete removes a lead owned by userID
func (s *LeadStorage) Delete(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM leads WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return requireRow(res, "delete lead")
}

func driverName(q sqlx.QueryerContext) string {
	if d, ok := q.(interface{ DriverName() string }); ok {
		return d.DriverName()
	}
	return "postgres"
}
