// Package view derives what a screen displays from an in-memory collection:
// sorting, paging, aggregates, skill chips and score bands. Everything here
// is pure; nothing touches the network or caches results.
package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rsilvagit/resumatch/internal/model"
)

// Order is the sort direction.
type Order int

const (
	Descending Order = iota
	Ascending
)

func (o Order) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseOrder accepts "asc" or "desc" (case-insensitive).
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending", "":
		return Descending, nil
	}
	return Descending, fmt.Errorf("unknown sort order %q", s)
}

// Match sort keys.
const (
	KeyScore      = "score"
	KeyTechnical  = "technical"
	KeyExperience = "experience"
	KeyCandidate  = "candidateName"
	KeyJobTitle   = "jobTitle"
	KeyDate       = "date"
)

// Job sort keys.
const (
	KeyCreatedAt = "createdAt"
	KeyTitle     = "title"
	KeyCompany   = "company"
)

var keyAliases = map[string]string{
	"matchscore":      KeyScore,
	"overallscore":    KeyScore,
	"technicalmatch":  KeyTechnical,
	"experiencematch": KeyExperience,
	"candidate":       KeyCandidate,
	"name":            KeyCandidate,
	"job":             KeyJobTitle,
	"uploadedat":      KeyDate,
	"scoredat":        KeyDate,
	"created":         KeyCreatedAt,
}

// NormalizeKey maps accepted spellings of a sort key to its canonical form.
// Unknown keys are returned unchanged.
func NormalizeKey(key string) string {
	lower := strings.ToLower(key)
	if k, ok := keyAliases[lower]; ok {
		return k
	}
	for _, k := range []string{KeyScore, KeyTechnical, KeyExperience, KeyCandidate, KeyJobTitle, KeyDate, KeyCreatedAt, KeyTitle, KeyCompany} {
		if strings.ToLower(k) == lower {
			return k
		}
	}
	return key
}

// SortMatches returns a sorted copy of scores. Names compare with the
// collation rules of locale; missing values count as 0 or "". Equal keys are
// ordered by ID so that Descending is the exact reverse of Ascending. An
// unknown key keeps the input order.
func SortMatches(scores []model.MatchScore, key string, order Order, locale language.Tag) []model.MatchScore {
	key = NormalizeKey(key)
	col := collate.New(locale)
	out := slices.Clone(scores)

	known := true
	compare := func(a, b model.MatchScore) int {
		switch key {
		case KeyScore:
			return cmp.Compare(a.OverallScore, b.OverallScore)
		case KeyTechnical:
			return cmp.Compare(a.TechnicalMatch, b.TechnicalMatch)
		case KeyExperience:
			return cmp.Compare(a.ExperienceMatch, b.ExperienceMatch)
		case KeyCandidate:
			return col.CompareString(a.CandidateName, b.CandidateName)
		case KeyJobTitle:
			return col.CompareString(a.JobTitle, b.JobTitle)
		case KeyDate:
			return cmp.Compare(millis(a.Scored()), millis(b.Scored()))
		}
		known = false
		return 0
	}

	slices.SortStableFunc(out, func(a, b model.MatchScore) int {
		c := compare(a, b)
		if c == 0 && known {
			c = strings.Compare(a.ID, b.ID)
		}
		if order == Descending {
			return -c
		}
		return c
	})
	return out
}

// SortJobs returns a sorted copy of jobs, with the same rules as SortMatches.
func SortJobs(jobs []model.Job, key string, order Order, locale language.Tag) []model.Job {
	key = NormalizeKey(key)
	col := collate.New(locale)
	out := slices.Clone(jobs)

	known := true
	compare := func(a, b model.Job) int {
		switch key {
		case KeyCreatedAt, KeyDate:
			return cmp.Compare(millis(a.Created()), millis(b.Created()))
		case KeyTitle, KeyJobTitle:
			return col.CompareString(a.Title, b.Title)
		case KeyCompany:
			return col.CompareString(a.Company, b.Company)
		}
		known = false
		return 0
	}

	slices.SortStableFunc(out, func(a, b model.Job) int {
		c := compare(a, b)
		if c == 0 && known {
			c = strings.Compare(a.ID, b.ID)
		}
		if order == Descending {
			return -c
		}
		return c
	})
	return out
}

// ParseLocale parses a BCP 47 tag, falling back to the root collation.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und
	}
	return tag
}

// millis mirrors a missing date as the Unix epoch.
func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
