// Package query builds the access-controlled list query for PDF
// documents. Build produces a storage-agnostic Spec from the raw
// request parameters; internal/database translates a Spec to SQL, and
// Spec.Matches evaluates the same predicate in memory.
package query

import (
	"strings"
	"time"

	"galeria-pdf/internal/models"
)

type Filter string

const (
	FilterAll     Filter = "all"
	FilterPublic  Filter = "public"
	FilterPrivate Filter = "private"
)

type SearchBy string

const (
	SearchAll         SearchBy = "all"
	SearchTitle       SearchBy = "title"
	SearchDescription SearchBy = "description"
	SearchTags        SearchBy = "tags"
)

type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
	SortName   Sort = "name"
	SortSize   Sort = "size"
)

// Params carries the raw, user-supplied query-string values.
type Params struct {
	Search     string
	SearchBy   string
	Sort       string
	Filter     string
	DateFilter string
}

// Spec describes one list query: which documents the caller may see,
// how they are searched and how they are ordered.
type Spec struct {
	CallerID     int64
	Filter       Filter
	Search       string
	SearchBy     SearchBy
	Sort         Sort
	CreatedAfter *time.Time
}

// Build parses params permissively: an unknown value for any enum
// parameter falls back to its default instead of failing.
func Build(callerID int64, p Params) Spec {
	spec := Spec{
		CallerID: callerID,
		Filter:   parseFilter(p.Filter),
		Search:   strings.TrimSpace(p.Search),
		SearchBy: parseSearchBy(p.SearchBy),
		Sort:     parseSort(p.Sort),
	}
	spec.CreatedAfter = CreatedAfterFor(p.DateFilter, time.Now())
	return spec
}

func parseFilter(raw string) Filter {
	switch Filter(raw) {
	case FilterPublic, FilterPrivate:
		return Filter(raw)
	default:
		return FilterAll
	}
}

func parseSearchBy(raw string) SearchBy {
	switch raw {
	case "title", "name": // the web client historically sent "name"
		return SearchTitle
	case "description":
		return SearchDescription
	case "tags":
		return SearchTags
	default:
		return SearchAll
	}
}

func parseSort(raw string) Sort {
	switch Sort(raw) {
	case SortOldest, SortName, SortSize:
		return Sort(raw)
	default:
		return SortNewest
	}
}

// CreatedAfterFor resolves a dateFilter value to a lower bound on the
// creation timestamp, relative to now. "today" means the start of the
// current calendar day in the server's local time zone.
func CreatedAfterFor(dateFilter string, now time.Time) *time.Time {
	var cutoff time.Time
	switch dateFilter {
	case "today":
		y, m, d := now.Date()
		cutoff = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case "week":
		cutoff = now.AddDate(0, 0, -7)
	case "month":
		cutoff = now.AddDate(0, -1, 0)
	default:
		return nil
	}
	return &cutoff
}

// Matches reports whether doc satisfies the Spec's visibility, search
// and date predicates. It is the in-memory equivalent of the SQL the
// database layer builds from the same Spec.
func (s Spec) Matches(doc models.PdfDocument) bool {
	if !s.visible(doc) {
		return false
	}
	if s.CreatedAfter != nil && doc.CreatedAt.Before(*s.CreatedAfter) {
		return false
	}
	if s.Search != "" && !s.searchMatches(doc) {
		return false
	}
	return true
}

// The visibility rule is the same for every filter value: a caller
// sees their own documents and, unless filter=private, anyone's
// public ones. This is the unified rule; see DESIGN.md.
func (s Spec) visible(doc models.PdfDocument) bool {
	owned := doc.OwnerID == s.CallerID
	if s.Filter == FilterPrivate {
		return owned && !doc.IsPublic
	}
	return doc.IsPublic || owned
}

func (s Spec) searchMatches(doc models.PdfDocument) bool {
	needle := strings.ToLower(s.Search)

	titleHit := strings.Contains(strings.ToLower(doc.Title), needle)
	descHit := strings.Contains(strings.ToLower(doc.Description), needle)
	tagHit := false
	for _, tag := range doc.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			tagHit = true
			break
		}
	}

	switch s.SearchBy {
	case SearchTitle:
		return titleHit
	case SearchDescription:
		return descHit
	case SearchTags:
		return tagHit
	default:
		return titleHit || descHit || tagHit
	}
}
