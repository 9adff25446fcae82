package model

import (
	"strings"
	"time"
)

// Job represents a single job posting owned by the remote gateway.
type Job struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Salary       string   `json:"salary"` // free text, ex: "$80,000 - $120,000"
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	CreatedAt    string   `json:"createdAt"` // ISO 8601
}

// NewJob is the payload submitted to create or update a job.
type NewJob struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Location     string   `json:"location"`
	Salary       string   `json:"salary"`
}

// Created parses CreatedAt. Missing or malformed values yield the zero time.
func (j Job) Created() time.Time {
	return parseTimestamp(j.CreatedAt)
}

// FullText returns all searchable text fields concatenated in lowercase.
func (j Job) FullText() string {
	return strings.ToLower(
		j.Title + " " + j.Company + " " + j.Location + " " +
			j.Description + " " + strings.Join(j.Requirements, " "),
	)
}

// ParseRequirements splits comma-separated input into trimmed, non-empty
// requirement entries.
func ParseRequirements(s string) []string {
	reqs := []string{}
	for _, r := range strings.Split(s, ",") {
		r = strings.TrimSpace(r)
		if r != "" {
			reqs = append(reqs, r)
		}
	}
	return reqs
}

// ToJob builds a local job record from the payload.
func (n NewJob) ToJob(id string, createdAt time.Time) Job {
	reqs := n.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	return Job{
		ID:           id,
		Title:        n.Title,
		Company:      n.Company,
		Location:     n.Location,
		Salary:       n.Salary,
		Description:  n.Description,
		Requirements: reqs,
		CreatedAt:    createdAt.UTC().Format(time.RFC3339),
	}
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
