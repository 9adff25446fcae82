package filter

import (
	"strings"

	"github.com/rsilvagit/resumatch/internal/model"
)

// Options holds all filter criteria. Empty fields mean "no filter".
type Options struct {
	JobID  string // exact job identifier
	Search string // case-insensitive text to match
}

// Matches returns the match scores that pass both the job filter and the
// search term. The search term is looked up in the candidate name, job
// title, resume file name and company.
func Matches(scores []model.MatchScore, opts Options) []model.MatchScore {
	term := normalize(opts.Search)
	result := make([]model.MatchScore, 0, len(scores))
	for _, m := range scores {
		if opts.JobID != "" && m.JobID != opts.JobID {
			continue
		}
		if term != "" && !containsAny(term, m.CandidateName, m.JobTitle, m.ResumeFileName, m.Company) {
			continue
		}
		result = append(result, m)
	}
	return result
}

// Jobs returns the jobs whose id matches the job filter and whose text
// (title, company, location, description, requirements) contains the
// search term.
func Jobs(jobs []model.Job, opts Options) []model.Job {
	term := normalize(opts.Search)
	result := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if opts.JobID != "" && j.ID != opts.JobID {
			continue
		}
		if term != "" && !strings.Contains(j.FullText(), term) {
			continue
		}
		result = append(result, j)
	}
	return result
}

// containsAny checks if any of the fields contains the lowercase term.
func containsAny(term string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsEmpty reports whether no criterion is set.
func (o Options) IsEmpty() bool {
	return o.JobID == "" && strings.TrimSpace(o.Search) == ""
}
