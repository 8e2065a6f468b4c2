// Package pipeline filters, sorts and pages in-memory snapshots of campaign and
// lead view records. Every function is pure: inputs are never modified and the
// same input with the same Config always yields the same output.
package pipeline

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Record is a row the pipeline can filter and sort
type Record interface {
	// SearchFields are the texts matched by the free-text search
	SearchFields() []string
	StatusLabel() string
	CampaignName() string
	SortValue(key SortKey) Value
}

// Apply runs search, status and campaign predicates (AND-combined) followed by
// a stable sort on cfg.SortKey. Records that do not carry the sort key keep their
// relative order and are placed after the records that do.
func Apply[T Record](items []T, cfg Config) []T {
	query := strings.ToLower(cfg.SearchQuery)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if query != "" && !matchesSearch(it, query) {
			continue
		}
		if !isShowAll(cfg.StatusFilter) && it.StatusLabel() != cfg.StatusFilter {
			continue
		}
		if !isShowAll(cfg.CampaignFilter) && it.CampaignName() != cfg.CampaignFilter {
			continue
		}
		out = append(out, it)
	}

	if cfg.SortKey == SortNone {
		return out
	}

	// Collators keep scratch buffers, so each call gets its own.
	col := collate.New(language.English, collate.IgnoreCase)
	desc := cfg.SortOrder == Descending
	slices.SortStableFunc(out, func(a, b T) int {
		va, vb := a.SortValue(cfg.SortKey), b.SortValue(cfg.SortKey)
		switch {
		case va.IsNone() && vb.IsNone():
			return 0
		case va.IsNone():
			return 1
		case vb.IsNone():
			return -1
		}
		c := compare(col, va, vb)
		if desc {
			return -c
		}
		return c
	})
	return out
}

func matchesSearch(r Record, query string) bool {
	for _, f := range r.SearchFields() {
		if f != "" && strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// Page returns the 1-based page window of items and the number of the following
// page, or nil when the window reaches the end.
func Page[T any](items []T, page, limit int) ([]T, *int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return []T{}, nil
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}, nil
	}
	end := min(start+limit, len(items))
	window := make([]T, end-start)
	copy(window, items[start:end])
	if end == len(items) {
		return window, nil
	}
	next := page + 1
	return window, &next
}
