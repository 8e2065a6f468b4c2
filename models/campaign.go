package models

import (
	"leadboard/pipeline"
	"math"
	"time"
)

// Campaign represents a named grouping of leads owned by one user
type Campaign struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Status      CampaignStatus `db:"status" json:"status"`
	Description *string        `db:"description" json:"description"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UserID      string         `db:"user_id" json:"-"`
}

// CampaignMetrics are derived from the leads of a campaign on every read
type CampaignMetrics struct {
	TotalLeads      int `json:"totalLeads"`
	SuccessfulLeads int `json:"successfulLeads"`
}

// ComputeMetrics counts total and successful leads
func ComputeMetrics(leads []Lead) CampaignMetrics {
	m := CampaignMetrics{TotalLeads: len(leads)}
	for _, l := range leads {
		if l.Status.IsSuccessful() {
			m.SuccessfulLeads++
		}
	}
	return m
}

// ResponseRate returns the rounded percentage of successful leads, 0 without leads
func (m CampaignMetrics) ResponseRate() int {
	return ResponseRate(m.SuccessfulLeads, m.TotalLeads)
}

// ResponseRate rounds successful/total*100 half away from zero
func ResponseRate(successful, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(successful) / float64(total) * 100))
}

// CampaignSummary is a campaign annotated with its lead metrics
type CampaignSummary struct {
	Campaign
	CampaignMetrics
}

// CampaignDetail is a campaign with its leads
type CampaignDetail struct {
	CampaignSummary
	Leads []Lead `json:"leads"`
}

// DashboardSummary backs the summary cards of the campaigns page
type DashboardSummary struct {
	TotalCampaigns  int `json:"totalCampaigns"`
	ActiveCampaigns int `json:"activeCampaigns"`
	TotalLeads      int `json:"totalLeads"`
	TotalResponses  int `json:"totalResponses"`
	AvgResponseRate int `json:"avgResponseRate"`
}

// Pipeline record accessors

func (c CampaignSummary) SearchFields() []string {
	fields := []string{c.Name, c.Status.Label()}
	if c.Description != nil {
		fields = append(fields, *c.Description)
	}
	return fields
}

func (c CampaignSummary) StatusLabel() string  { return c.Status.Label() }
func (c CampaignSummary) CampaignName() string { return c.Name }

func (c CampaignSummary) SortValue(key pipeline.SortKey) pipeline.Value {
	switch key {
	case pipeline.SortByName:
		return pipeline.Text(c.Name)
	case pipeline.SortByStatus:
		return pipeline.Text(c.Status.Label())
	case pipeline.SortByCreatedAt:
		return pipeline.Time(c.CreatedAt)
	case pipeline.SortByTotalLeads:
		return pipeline.Number(int64(c.TotalLeads))
	case pipeline.SortBySuccessfulLeads:
		return pipeline.Number(int64(c.SuccessfulLeads))
	}
	return pipeline.None
}
