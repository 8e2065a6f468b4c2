package service

import (
	"context"
	"leadboard/models"
	"leadboard/utils"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultSeedLeads is the number of leads a seed run creates
const DefaultSeedLeads = 15

var seedCampaigns = []models.Campaign{
	{Name: "Q1 Marketing Push", Status: models.CampaignActive, Description: strPtr("General marketing for the first quarter.")},
	{Name: "Social Media Outreach", Status: models.CampaignDraft, Description: strPtr("Targeting new clients on LinkedIn.")},
}

var seedStatuses = []string{
	string(models.LeadPending),
	string(models.LeadContacted),
	string(models.LeadResponded),
}

// SeedResult reports what a seed run created
type SeedResult struct {
	Campaigns int `json:"campaigns"`
	Leads     int `json:"leads"`
}

// Seeder fills a user's account with sample campaigns and fake leads
type Seeder struct {
	campaigns CampaignStore
	leads     LeadStore
	faker     *gofakeit.Faker
	now       func() time.Time
}

// NewSeeder creates a seeder; seed 0 picks a random seed
func NewSeeder(campaigns CampaignStore, leads LeadStore, seed int64) *Seeder {
	return &Seeder{
		campaigns: campaigns,
		leads:     leads,
		faker:     gofakeit.New(seed),
		now:       time.Now,
	}
}

// Seed creates the sample campaigns and n leads spread across them, with
// last-contact dates within the past 30 days.
func (s *Seeder) Seed(ctx context.Context, userID string, n int) (*SeedResult, error) {
	if n <= 0 {
		n = DefaultSeedLeads
	}

	created := make([]models.Campaign, 0, len(seedCampaigns))
	for _, tmpl := range seedCampaigns {
		c := tmpl
		c.UserID = userID
		if err := s.campaigns.Create(ctx, &c); err != nil {
			s.discard(ctx, userID, created)
			return nil, storeError("seed campaign", err)
		}
		created = append(created, c)
	}

	now := s.now().UTC()
	leads := make([]*models.Lead, 0, n)
	for i := 0; i < n; i++ {
		c := created[s.faker.Number(0, len(created)-1)]
		contacted := s.faker.DateRange(now.AddDate(0, 0, -30), now)
		leads = append(leads, &models.Lead{
			Name:            s.faker.Name(),
			Role:            strPtr(s.faker.JobTitle()),
			Email:           s.faker.Email(),
			Company:         strPtr(s.faker.Company()),
			AvatarURL:       strPtr(s.faker.ImageURL(128, 128)),
			Status:          models.LeadStatus(s.faker.RandomString(seedStatuses)),
			CampaignID:      c.ID,
			UserID:          userID,
			LastContactDate: &contacted,
		})
	}
	if err := s.leads.CreateBatch(ctx, leads); err != nil {
		s.discard(ctx, userID, created)
		return nil, storeError("seed leads", err)
	}

	return &SeedResult{Campaigns: len(created), Leads: len(leads)}, nil
}

// discard removes the campaigns of a failed run so the account is left as it was
func (s *Seeder) discard(ctx context.Context, userID string, created []models.Campaign) {
	ctx = context.WithoutCancel(ctx)
	for _, c := range created {
		if err := s.campaigns.Delete(ctx, userID, c.ID); err != nil {
			utils.Log.WithFields(map[string]interface{}{"user": userID, "campaign": c.ID}).Error("Failed to remove seed campaign: %v", err)
		}
	}
}

func strPtr(s string) *string {
	return &s
}
