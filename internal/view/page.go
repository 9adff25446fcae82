package view

import (
	"golang.org/x/text/language"

	"github.com/rsilvagit/resumatch/internal/filter"
	"github.com/rsilvagit/resumatch/internal/model"
)

// DefaultPageSize is the number of rows per page when none is given.
const DefaultPageSize = 10

// Query is the view state a screen applies to its collection.
type Query struct {
	JobID    string
	Search   string
	SortKey  string
	Order    Order
	Page     int // zero-based
	PageSize int
	Locale   language.Tag
}

// Paginate returns items[page*size : page*size+size], clipped to the
// collection. Negative pages, non-positive sizes and pages past the end
// yield an empty slice.
func Paginate[T any](items []T, page, size int) []T {
	if page < 0 || size <= 0 {
		return []T{}
	}
	start := page * size
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := min(start+size, len(items))
	return items[start:end:end]
}

// PageCount returns how many pages of size hold total rows.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// MatchPage is the derived content of the match scores screen.
type MatchPage struct {
	Rows     []model.MatchScore
	Summary  Summary
	Page     int
	PageSize int
	Pages    int
}

// Matches filters, sorts and paginates scores. The summary covers the whole
// filtered set, not only the visible page.
func Matches(scores []model.MatchScore, q Query) MatchPage {
	size := pageSize(q.PageSize)
	filtered := filter.Matches(scores, filter.Options{JobID: q.JobID, Search: q.Search})
	sorted := SortMatches(filtered, q.SortKey, q.Order, q.Locale)
	return MatchPage{
		Rows:     Paginate(sorted, q.Page, size),
		Summary:  Summarize(filtered),
		Page:     q.Page,
		PageSize: size,
		Pages:    PageCount(len(filtered), size),
	}
}

// JobPage is the derived content of the jobs screen.
type JobPage struct {
	Rows     []model.Job
	Total    int
	Page     int
	PageSize int
	Pages    int
}

// Jobs filters, sorts and paginates jobs. An empty sort key keeps the
// gateway order, newest local writes first.
func Jobs(jobs []model.Job, q Query) JobPage {
	size := pageSize(q.PageSize)
	filtered := filter.Jobs(jobs, filter.Options{JobID: q.JobID, Search: q.Search})
	sorted := filtered
	if q.SortKey != "" {
		sorted = SortJobs(filtered, q.SortKey, q.Order, q.Locale)
	}
	return JobPage{
		Rows:     Paginate(sorted, q.Page, size),
		Total:    len(filtered),
		Page:     q.Page,
		PageSize: size,
		Pages:    PageCount(len(filtered), size),
	}
}

func pageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return size
}
