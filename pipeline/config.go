package pipeline

import (
	"fmt"
	"strings"
)

// ShowAll is the filter sentinel that disables the status and campaign predicates.
// The empty string has the same meaning.
const ShowAll = "all"

// SortKey names the field a view is ordered by
type SortKey string

const (
	SortNone              SortKey = ""
	SortByName            SortKey = "name"
	SortByStatus          SortKey = "status"
	SortByCreatedAt       SortKey = "createdAt"
	SortByTotalLeads      SortKey = "totalLeads"
	SortBySuccessfulLeads SortKey = "successfulLeads"
	SortByLastContactDate SortKey = "lastContactDate"
)

var sortKeys = []SortKey{
	SortByName,
	SortByStatus,
	SortByCreatedAt,
	SortByTotalLeads,
	SortBySuccessfulLeads,
	SortByLastContactDate,
}

// ParseSortKey validates a sort key coming from a request. Matching is
// case-insensitive so "createdat" and "createdAt" are the same key.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortNone, nil
	}
	for _, k := range sortKeys {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort key %q", s)
}

// SortOrder is the direction of a sort
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder validates a sort direction, defaulting to ascending
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort order %q", s)
}

// Config is the complete filter and sort state for one view. It is passed
// explicitly on every call; the pipeline keeps no state of its own.
type Config struct {
	SearchQuery    string
	StatusFilter   string
	CampaignFilter string
	SortKey        SortKey
	SortOrder      SortOrder
}

// Toggle returns the config produced by clicking a column header: the same key
// flips the direction, a new key starts ascending.
func (c Config) Toggle(key SortKey) Config {
	if c.SortKey == key {
		if c.SortOrder == Descending {
			c.SortOrder = Ascending
		} else {
			c.SortOrder = Descending
		}
		return c
	}
	c.SortKey = key
	c.SortOrder = Ascending
	return c
}

func isShowAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, ShowAll)
}
