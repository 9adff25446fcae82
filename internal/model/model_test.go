package model_test

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/rsilvagit/resumatch/internal/model"
)

func TestMatchScore_DecodesCanonicalSchema(t *testing.T) {
	data := `{
		"id": "m1", "jobId": "job-1", "jobTitle": "Frontend Developer", "company": "Tech Corp",
		"candidateName": "Ana", "resumeFileName": "ana.pdf",
		"overallScore": 88.5, "technicalMatch": 90, "experienceMatch": 80,
		"skills": {"programmingLanguages": ["Go"], "frameworks": ["React"], "tools": ["Git"]},
		"experience": "4 years", "scoredAt": "2024-01-16T11:30:00Z"
	}`
	var m model.MatchScore
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		t.Fatal(err)
	}
	if m.OverallScore != 88.5 || m.TechnicalMatch != 90 || m.ExperienceMatch != 80 {
		t.Errorf("scores = %v/%v/%v", m.OverallScore, m.TechnicalMatch, m.ExperienceMatch)
	}
	if got := m.Skills.All(); !slices.Equal(got, []string{"Go", "React", "Git"}) {
		t.Errorf("skills = %v", got)
	}
	if !m.Scored().Equal(time.Date(2024, 1, 16, 11, 30, 0, 0, time.UTC)) {
		t.Errorf("scored = %v", m.Scored())
	}
}

func TestMatchScore_DecodesLegacySchema(t *testing.T) {
	data := `{"id": "m2", "jobId": "job-2", "matchScore": 72, "skills": ["Python", "AWS"], "uploadedAt": "2024-01-15T14:45:00Z"}`
	var m model.MatchScore
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		t.Fatal(err)
	}
	if m.OverallScore != 72 {
		t.Errorf("OverallScore = %v, want 72", m.OverallScore)
	}
	if m.Skills == nil || !slices.Equal(m.Skills.Other, []string{"Python", "AWS"}) {
		t.Errorf("skills = %+v", m.Skills)
	}
	if m.ScoredAt != "2024-01-15T14:45:00Z" {
		t.Errorf("ScoredAt = %q", m.ScoredAt)
	}
}

func TestMatchScore_CanonicalWinsOverLegacy(t *testing.T) {
	var m model.MatchScore
	if err := json.Unmarshal([]byte(`{"overallScore": 60, "matchScore": 99, "scoredAt": "2024-02-01T00:00:00Z", "uploadedAt": "2023-01-01T00:00:00Z"}`), &m); err != nil {
		t.Fatal(err)
	}
	if m.OverallScore != 60 || m.ScoredAt != "2024-02-01T00:00:00Z" {
		t.Errorf("got %v %q", m.OverallScore, m.ScoredAt)
	}
}

func TestMatchScore_EncodesCanonicalSchema(t *testing.T) {
	var m model.MatchScore
	if err := json.Unmarshal([]byte(`{"id":"m3","matchScore":50,"skills":["Go"]}`), &m); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]any
	json.Unmarshal(out, &fields)
	if fields["overallScore"] != 50.0 {
		t.Errorf("overallScore = %v", fields["overallScore"])
	}
	if _, ok := fields["matchScore"]; ok {
		t.Error("legacy field written back out")
	}
}

func TestMatchScore_BadSkills(t *testing.T) {
	var m model.MatchScore
	if err := json.Unmarshal([]byte(`{"id":"m4","skills":"Go"}`), &m); err == nil {
		t.Error("expected an error for a string skills value")
	}
}

func TestMatchScore_DisplayDefaults(t *testing.T) {
	var m model.MatchScore
	if err := json.Unmarshal([]byte(`{"id":"m5"}`), &m); err != nil {
		t.Fatal(err)
	}
	checks := map[string][2]string{
		"candidate":  {m.DisplayCandidate(), "Unknown"},
		"job title":  {m.DisplayJobTitle(), "Unknown"},
		"file":       {m.DisplayFile(), "No file"},
		"experience": {m.DisplayExperience(), "Not specified"},
		"scored at":  {m.DisplayScoredAt(), "Unknown"},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", name, c[0], c[1])
		}
	}
	if m.OverallScore != 0 || m.Skills.All() == nil || len(m.Skills.All()) != 0 {
		t.Errorf("missing values should read as zero: %+v", m)
	}
	if m.CandidateName != "" {
		t.Error("display defaults must not be stored")
	}
}

func TestParseRequirements(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"React, TypeScript , Node.js", []string{"React", "TypeScript", "Node.js"}},
		{" , ,Go,, ", []string{"Go"}},
		{"", []string{}},
	}
	for _, tc := range cases {
		got := model.ParseRequirements(tc.in)
		if got == nil || !slices.Equal(got, tc.want) {
			t.Errorf("ParseRequirements(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestJob_Created(t *testing.T) {
	if !(model.Job{CreatedAt: "not a date"}).Created().IsZero() {
		t.Error("malformed createdAt should be the zero time")
	}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	job := model.NewJob{Title: "SRE"}.ToJob("job-1", at)
	if !job.Created().Equal(at) || job.Requirements == nil {
		t.Errorf("ToJob = %+v", job)
	}
}
