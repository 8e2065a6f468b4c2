package client

import (
	"context"
	"errors"
	"leadboard/models"
	"leadboard/pipeline"
	"sync"
)

// ErrSuperseded is returned by FetchNext when the filter changed while the
// page was in flight. The page is discarded.
var ErrSuperseded = errors.New("lead fetch superseded by a filter change")

// LeadAPI is the part of the API a LeadFeed needs
type LeadAPI interface {
	ListLeads(ctx context.Context, p LeadParams) (*models.LeadPage, error)
	UpdateLeadStatus(ctx context.Context, id int64, status models.LeadStatus) (*models.LeadView, error)
}

var _ LeadAPI = (*Client)(nil)

// Filter is the server-side part of the lead query
type Filter struct {
	Query  string
	Status string
}

// LeadFeed holds the incrementally loaded lead list of one view. Pages are
// appended in cursor order; a filter change starts over from page 1.
type LeadFeed struct {
	api   LeadAPI
	cache *QueryCache
	limit int

	mu         sync.Mutex
	filter     Filter
	generation uint64
	items      []models.LeadView
	next       *int
}

// NewLeadFeed creates a feed loading limit leads per page. cache may be nil.
func NewLeadFeed(api LeadAPI, cache *QueryCache, limit int) *LeadFeed {
	first := 1
	return &LeadFeed{
		api:   api,
		cache: cache,
		limit: limit,
		next:  &first,
	}
}

// SetFilter changes the server-side filter, dropping loaded leads and any
// fetch still in flight.
func (f *LeadFeed) SetFilter(filter Filter) {
	f.mu.Lock()
	defer f.mu.Unlock()

	first := 1
	f.filter = filter
	f.generation++
	f.items = nil
	f.next = &first
}

// HasMore reports whether another page can be fetched
func (f *LeadFeed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next != nil
}

// FetchNext loads the next page and appends it. It returns the number of
// leads appended, zero once the end is reached.
func (f *LeadFeed) FetchNext(ctx context.Context) (int, error) {
	f.mu.Lock()
	if f.next == nil {
		f.mu.Unlock()
		return 0, nil
	}
	gen, page, filter := f.generation, *f.next, f.filter
	f.mu.Unlock()

	res, err := f.api.ListLeads(ctx, LeadParams{
		Query:  filter.Query,
		Status: filter.Status,
		Page:   page,
		Limit:  f.limit,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		return 0, ErrSuperseded
	}
	if err != nil {
		return 0, err
	}
	// Another fetch of the same page already landed
	if f.next == nil || *f.next != page {
		return 0, nil
	}
	f.items = append(f.items, res.Items...)
	f.next = res.NextPage
	return len(res.Items), nil
}

// Snapshot returns a copy of the loaded leads
func (f *LeadFeed) Snapshot() []models.LeadView {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.LeadView, len(f.items))
	copy(out, f.items)
	return out
}

// View runs the loaded leads through the client-side pipeline
func (f *LeadFeed) View(cfg pipeline.Config) []models.LeadView {
	return pipeline.Apply(f.Snapshot(), cfg)
}

// UpdateStatus applies the new status locally, then on the server. On failure
// the lead is put back the way it was; on success it is replaced by the
// server's copy and cached campaign aggregates are dropped.
func (f *LeadFeed) UpdateStatus(ctx context.Context, id int64, status models.LeadStatus) (*models.LeadView, error) {
	f.mu.Lock()
	var previous *models.LeadView
	if i := f.indexOf(id); i >= 0 {
		prev := f.items[i]
		previous = &prev
		f.items[i].Status = status
	}
	f.mu.Unlock()

	updated, err := f.api.UpdateLeadStatus(ctx, id, status)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		if previous != nil {
			if i := f.indexOf(id); i >= 0 {
				f.items[i] = *previous
			}
		}
		return nil, err
	}

	if i := f.indexOf(id); i >= 0 {
		f.items[i] = *updated
	}
	f.cache.Invalidate(campaignsKey)
	return updated, nil
}

func (f *LeadFeed) indexOf(id int64) int {
	for i := range f.items {
		if f.items[i].ID == id {
			return i
		}
	}
	return -1
}
