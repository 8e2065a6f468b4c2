package models

// LeadPage is one window of the incremental lead listing
type LeadPage struct {
	Items    []LeadView `json:"items"`
	NextPage *int       `json:"nextPage"`
}

// NewLeadPage creates a page, normalizing a nil slice to an empty one
func NewLeadPage(items []LeadView, next *int) *LeadPage {
	if items == nil {
		items = []LeadView{}
	}
	return &LeadPage{
		Items:    items,
		NextPage: next,
	}
}
