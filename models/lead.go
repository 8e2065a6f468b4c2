package models

import (
	"leadboard/pipeline"
	"time"
)

// Lead represents a prospective contact tracked through the outreach funnel
type Lead struct {
	ID              int64      `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Role            *string    `db:"role" json:"role"`
	Email           string     `db:"email" json:"email"`
	Company         *string    `db:"company" json:"company"`
	AvatarURL       *string    `db:"avatar_url" json:"avatarUrl"`
	Status          LeadStatus `db:"status" json:"status"`
	CampaignID      int64      `db:"campaign_id" json:"campaignId"`
	UserID          string     `db:"user_id" json:"userId"`
	LastContactDate *time.Time `db:"last_contact_date" json:"lastContactDate"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
}

// CampaignRef is the campaign projection embedded in lead listings
type CampaignRef struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// LeadView is a lead joined with the name of its campaign
type LeadView struct {
	Lead
	Campaign CampaignRef `db:"campaign" json:"campaign"`
}

// Pipeline record accessors

func (l LeadView) SearchFields() []string {
	return []string{
		l.Name,
		deref(l.Role),
		l.Email,
		deref(l.Company),
		l.Campaign.Name,
		l.Status.Label(),
	}
}

func (l LeadView) StatusLabel() string  { return l.Status.Label() }
func (l LeadView) CampaignName() string { return l.Campaign.Name }

func (l LeadView) SortValue(key pipeline.SortKey) pipeline.Value {
	switch key {
	case pipeline.SortByName:
		return pipeline.Text(l.Name)
	case pipeline.SortByStatus:
		return pipeline.Text(l.Status.Label())
	case pipeline.SortByCreatedAt:
		return pipeline.Time(l.CreatedAt)
	case pipeline.SortByLastContactDate:
		if l.LastContactDate == nil {
			return pipeline.None
		}
		return pipeline.Time(*l.LastContactDate)
	}
	return pipeline.None
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
