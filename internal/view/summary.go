package view

import (
	"math"

	"github.com/rsilvagit/resumatch/internal/model"
)

// TopMatchThreshold is the overall score from which a match counts as top.
const TopMatchThreshold = 80

// Summary aggregates a filtered set of match scores.
type Summary struct {
	Total      int
	Average    float64 // one decimal place, 0 when Total is 0
	TopMatches int
}

// Summarize computes the aggregates of scores.
func Summarize(scores []model.MatchScore) Summary {
	s := Summary{Total: len(scores)}
	if s.Total == 0 {
		return s
	}
	var sum float64
	for _, m := range scores {
		sum += m.OverallScore
		if m.OverallScore >= TopMatchThreshold {
			s.TopMatches++
		}
	}
	s.Average = math.Round(sum/float64(s.Total)*10) / 10
	return s
}
