// Package storagetest opens migrated throwaway SQLite databases for tests.
package storagetest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"leadboard/config"
	"leadboard/models"
	"leadboard/storage"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// Config returns a SQLite database config pointing into t.TempDir()
func Config(t testing.TB) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Driver:       "sqlite3",
		DSN:          filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 4,
	}
}

// NewDB opens a migrated database that is closed when the test ends
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()
	cfg := Config(t)
	require.NoError(t, storage.Migrate(cfg))

	db, err := storage.InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// CreateUser inserts a user with password "password123"
func CreateUser(t testing.TB, db *sqlx.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s@example.com", name),
	}
	require.NoError(t, storage.NewUserStorage(db).CreateUser(context.Background(), user, "password123"))
	return user
}

// CreateCampaign inserts a campaign owned by userID
func CreateCampaign(t testing.TB, db *sqlx.DB, userID, name string, status models.CampaignStatus) *models.Campaign {
	t.Helper()
	c := &models.Campaign{Name: name, Status: status, UserID: userID}
	require.NoError(t, storage.NewCampaignStorage(db).Create(context.Background(), c))
	return c
}

// CreateLead inserts a lead into campaign c with the given status
func CreateLead(t testing.TB, db *sqlx.DB, c *models.Campaign, name string, status models.LeadStatus) *models.Lead {
	t.Helper()
	lead := &models.Lead{
		Name:       name,
		Email:      name + "@example.com",
		Status:     status,
		CampaignID: c.ID,
		UserID:     c.UserID,
	}
	require.NoError(t, storage.NewLeadStorage(db).Create(context.Background(), lead))
	return lead
}
