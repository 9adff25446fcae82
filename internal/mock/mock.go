// Package mock holds the fixed sample datasets shown when the gateway is
// unreachable and mock fallback is enabled.
package mock

import "github.com/rsilvagit/resumatch/internal/model"

// Jobs returns a fresh copy of the sample job postings.
func Jobs() []model.Job {
	return []model.Job{
		{
			ID:           "job-1",
			Title:        "Frontend Developer",
			Company:      "Tech Corp",
			Description:  "We are looking for a skilled frontend developer with React experience.",
			Requirements: []string{"React", "JavaScript", "HTML", "CSS"},
			Location:     "San Francisco, CA",
			Salary:       "$80,000 - $120,000",
			CreatedAt:    "2024-01-15T10:00:00Z",
		},
		{
			ID:           "job-2",
			Title:        "Backend Developer",
			Company:      "Data Systems Inc",
			Description:  "Join our backend team to build scalable APIs and services.",
			Requirements: []string{"Node.js", "Python", "AWS", "DynamoDB"},
			Location:     "New York, NY",
			Salary:       "$90,000 - $130,000",
			CreatedAt:    "2024-01-14T14:30:00Z",
		},
		{
			ID:           "job-3",
			Title:        "Full Stack Developer",
			Company:      "StartupXYZ",
			Description:  "Help us build the next big thing in fintech.",
			Requirements: []string{"React", "Node.js", "MongoDB", "TypeScript"},
			Location:     "Remote",
			Salary:       "$70,000 - $110,000",
			CreatedAt:    "2024-01-13T09:15:00Z",
		},
	}
}

// MatchScores returns a fresh copy of the sample match scores.
func MatchScores() []model.MatchScore {
	return []model.MatchScore{
		{
			ID:              "match-1",
			JobID:           "job-1",
			JobTitle:        "Frontend Developer",
			Company:         "Tech Corp",
			CandidateName:   "John Doe",
			ResumeFileName:  "john_doe_resume.pdf",
			OverallScore:    85,
			TechnicalMatch:  88,
			ExperienceMatch: 80,
			Skills: &model.SkillSet{
				ProgrammingLanguages: []string{"JavaScript"},
				Frameworks:           []string{"React"},
				Tools:                []string{"HTML", "CSS"},
			},
			Experience: "3 years",
			ScoredAt:   "2024-01-16T11:30:00Z",
		},
		{
			ID:              "match-2",
			JobID:           "job-1",
			JobTitle:        "Frontend Developer",
			Company:         "Tech Corp",
			CandidateName:   "Jane Smith",
			ResumeFileName:  "jane_smith_resume.pdf",
			OverallScore:    92,
			TechnicalMatch:  94,
			ExperienceMatch: 90,
			Skills: &model.SkillSet{
				ProgrammingLanguages: []string{"TypeScript"},
				Frameworks:           []string{"React", "Redux"},
				Tools:                []string{"HTML", "CSS"},
			},
			Experience: "5 years",
			ScoredAt:   "2024-01-16T10:15:00Z",
		},
		{
			ID:              "match-3",
			JobID:           "job-2",
			JobTitle:        "Backend Developer",
			Company:         "Data Systems Inc",
			CandidateName:   "Mike Johnson",
			ResumeFileName:  "mike_johnson_resume.pdf",
			OverallScore:    78,
			TechnicalMatch:  82,
			ExperienceMatch: 70,
			Skills: &model.SkillSet{
				ProgrammingLanguages: []string{"Python"},
				Frameworks:           []string{"Node.js"},
				CloudPlatforms:       []string{"AWS"},
			},
			Experience: "2 years",
			ScoredAt:   "2024-01-16T09:45:00Z",
		},
	}
}
