package models

import (
	"fmt"
	"strings"
)

// CampaignStatus is the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "Active"
	CampaignDraft     CampaignStatus = "Draft"
	CampaignPaused    CampaignStatus = "Paused"
	CampaignCompleted CampaignStatus = "Completed"
)

// CampaignStatuses lists every campaign status in display order
var CampaignStatuses = []CampaignStatus{CampaignActive, CampaignDraft, CampaignPaused, CampaignCompleted}

// ParseCampaignStatus matches s case-insensitively against the campaign statuses
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range CampaignStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown campaign status %q", s)
}

// Label returns the display label of the status
func (s CampaignStatus) Label() string {
	return string(s)
}

// LeadStatus is the funnel position of a lead
type LeadStatus string

const (
	LeadPending      LeadStatus = "PENDING"
	LeadContacted    LeadStatus = "CONTACTED"
	LeadResponded    LeadStatus = "RESPONDED"
	LeadConverted    LeadStatus = "CONVERTED"
	LeadDoNotContact LeadStatus = "DO_NOT_CONTACT"
)

// LeadStatuses lists every lead status in funnel order
var LeadStatuses = []LeadStatus{LeadPending, LeadContacted, LeadResponded, LeadConverted, LeadDoNotContact}

var leadStatusLabels = map[LeadStatus]string{
	LeadPending:      "Pending",
	LeadContacted:    "Contacted",
	LeadResponded:    "Responded",
	LeadConverted:    "Converted",
	LeadDoNotContact: "Do Not Contact",
}

// ParseLeadStatus accepts either the stored code ("DO_NOT_CONTACT") or the
// display label ("Do Not Contact"), case-insensitively.
func ParseLeadStatus(s string) (LeadStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range LeadStatuses {
		if strings.EqualFold(s, string(st)) || strings.EqualFold(s, leadStatusLabels[st]) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown lead status %q", s)
}

// Label returns the display label of the status
func (s LeadStatus) Label() string {
	if l, ok := leadStatusLabels[s]; ok {
		return l
	}
	return "Unknown"
}

// MessageID returns the i18n message id for the status label
func (s LeadStatus) MessageID() string {
	return "lead_status_" + strings.ToLower(string(s))
}

// IsSuccessful reports whether the lead counts towards a campaign's response rate
func (s LeadStatus) IsSuccessful() bool {
	return s == LeadResponded || s == LeadConverted
}
