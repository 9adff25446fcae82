package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MatchScore is a server-computed measure of fit between a resume and a job.
//
// The gateway has been observed emitting two shapes. This struct is the
// canonical one; UnmarshalJSON also accepts the legacy shape (matchScore,
// flat skills array, uploadedAt) and maps it onto the canonical fields.
type MatchScore struct {
	ID              string    `json:"id"`
	JobID           string    `json:"jobId"`
	JobTitle        string    `json:"jobTitle"`
	Company         string    `json:"company,omitempty"`
	CandidateName   string    `json:"candidateName"`
	ResumeFileName  string    `json:"resumeFileName"`
	OverallScore    float64   `json:"overallScore"`
	TechnicalMatch  float64   `json:"technicalMatch"`
	ExperienceMatch float64   `json:"experienceMatch"`
	Skills          *SkillSet `json:"skills,omitempty"`
	Experience      string    `json:"experience,omitempty"`
	ScoredAt        string    `json:"scoredAt"`
}

// SkillSet holds skills extracted from a resume, grouped by category.
// Other collects entries the gateway did not categorise.
type SkillSet struct {
	ProgrammingLanguages []string `json:"programmingLanguages,omitempty"`
	Frameworks           []string `json:"frameworks,omitempty"`
	Databases            []string `json:"databases,omitempty"`
	CloudPlatforms       []string `json:"cloudPlatforms,omitempty"`
	Tools                []string `json:"tools,omitempty"`
	Other                []string `json:"other,omitempty"`
}

// All concatenates every category in display order. A nil set yields an
// empty slice.
func (s *SkillSet) All() []string {
	out := []string{}
	if s == nil {
		return out
	}
	for _, group := range [][]string{
		s.ProgrammingLanguages,
		s.Frameworks,
		s.Databases,
		s.CloudPlatforms,
		s.Tools,
		s.Other,
	} {
		out = append(out, group...)
	}
	return out
}

type matchScoreFields MatchScore

// UnmarshalJSON decodes both the canonical and the legacy match score shape.
func (m *MatchScore) UnmarshalJSON(data []byte) error {
	var raw struct {
		matchScoreFields
		OverallScore *float64       `json:"overallScore"`
		MatchScore   *float64       `json:"matchScore"`
		Skills       json.RawMessage `json:"skills"`
		UploadedAt   string         `json:"uploadedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = MatchScore(raw.matchScoreFields)

	switch {
	case raw.OverallScore != nil:
		m.OverallScore = *raw.OverallScore
	case raw.MatchScore != nil:
		m.OverallScore = *raw.MatchScore
	}
	if m.ScoredAt == "" {
		m.ScoredAt = raw.UploadedAt
	}

	skills, err := decodeSkills(raw.Skills)
	if err != nil {
		return fmt.Errorf("match score %q: %w", m.ID, err)
	}
	m.Skills = skills
	return nil
}

func decodeSkills(raw json.RawMessage) (*SkillSet, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var flat []string
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return nil, fmt.Errorf("decoding skills list: %w", err)
		}
		return &SkillSet{Other: flat}, nil
	case '{':
		var set SkillSet
		if err := json.Unmarshal(trimmed, &set); err != nil {
			return nil, fmt.Errorf("decoding skills: %w", err)
		}
		return &set, nil
	}
	return nil, fmt.Errorf("unexpected skills value %s", trimmed)
}

// Scored parses ScoredAt. Missing or malformed values yield the zero time.
func (m MatchScore) Scored() time.Time {
	return parseTimestamp(m.ScoredAt)
}

// DisplayCandidate returns the candidate name or "Unknown".
func (m MatchScore) DisplayCandidate() string {
	return orDefault(m.CandidateName, "Unknown")
}

// DisplayJobTitle returns the job title or "Unknown".
func (m MatchScore) DisplayJobTitle() string {
	return orDefault(m.JobTitle, "Unknown")
}

// DisplayFile returns the resume file name or "No file".
func (m MatchScore) DisplayFile() string {
	return orDefault(m.ResumeFileName, "No file")
}

// DisplayExperience returns the experience text or "Not specified".
func (m MatchScore) DisplayExperience() string {
	return orDefault(m.Experience, "Not specified")
}

// DisplayScoredAt returns the scoring date as YYYY-MM-DD or "Unknown".
func (m MatchScore) DisplayScoredAt() string {
	t := m.Scored()
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format(time.DateOnly)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
