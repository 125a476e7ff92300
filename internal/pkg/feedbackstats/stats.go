// Package feedbackstats turns raw 1..max ratings into per-question and
// overall ratios for one subject-faculty mapping.
package feedbackstats

import (
	"math"
	"sort"
)

// DefaultMaxRating is the top of the rating scale.
const DefaultMaxRating = 5

// Response is a single rating of one question by one respondent.
type Response struct {
	QuestionID int64
	Criteria   string
	Rating     int
}

// Submission is every rating one respondent gave for a mapping.
type Submission struct {
	Responses []Response
}

// QuestionRating is the aggregate for one question.
type QuestionRating struct {
	QuestionID     int64   `json:"questionId"`
	Criteria       string  `json:"criteria"`
	Rating         float64 `json:"rating"`
	Percentage     float64 `json:"percentage"`
	OutOf          int     `json:"outOf"`
	TotalResponses int     `json:"totalResponses"`
}

// Summary is the aggregate for a whole mapping.
type Summary struct {
	TotalResponses    int              `json:"totalResponses"`
	TotalQuestions    int              `json:"totalQuestions"`
	AverageRatings    []QuestionRating `json:"averageRatings"`
	OverallRating     float64          `json:"overallRating"`
	OverallPercentage float64          `json:"overallPercentage"`
	MaxRating         int              `json:"maxRating"`
}

type accumulator struct {
	criteria string
	total    int
	order    int
}

// Summarize aggregates submissions. Questions are keyed by ID only.
//
//	question ratio = sum(question ratings) / (respondents * maxRating)
//	overall ratio  = sum(all ratings) / (respondents * questions * maxRating)
//
// Ratios are rounded to 4 places and percentages (ratio*100) to 2.
// With no submissions every figure is zero.
func Summarize(submissions []Submission, maxRating int) Summary {
	if maxRating <= 0 {
		maxRating = DefaultMaxRating
	}

	summary := Summary{
		AverageRatings: []QuestionRating{},
		MaxRating:      maxRating,
	}

	respondents := len(submissions)
	if respondents == 0 {
		return summary
	}

	questions := make(map[int64]*accumulator)
	var sumAll int
	for _, sub := range submissions {
		for _, r := range sub.Responses {
			acc, ok := questions[r.QuestionID]
			if !ok {
				acc = &accumulator{criteria: r.Criteria, order: len(questions)}
				questions[r.QuestionID] = acc
			}
			acc.total += r.Rating
			sumAll += r.Rating
		}
	}

	ids := make([]int64, 0, len(questions))
	for id := range questions {
		ids = append(ids, id)
	}
	// first-seen order
	sort.Slice(ids, func(i, j int) bool { return questions[ids[i]].order < questions[ids[j]].order })

	denom := float64(respondents * maxRating)
	for _, id := range ids {
		acc := questions[id]
		ratio := Round4(float64(acc.total) / denom)
		summary.AverageRatings = append(summary.AverageRatings, QuestionRating{
			QuestionID:     id,
			Criteria:       acc.criteria,
			Rating:         ratio,
			Percentage:     Percent(ratio),
			OutOf:          maxRating,
			TotalResponses: respondents,
		})
	}

	summary.TotalResponses = respondents
	summary.TotalQuestions = len(questions)
	if summary.TotalQuestions > 0 {
		summary.OverallRating = Round4(float64(sumAll) / (denom * float64(summary.TotalQuestions)))
		summary.OverallPercentage = Percent(summary.OverallRating)
	}

	return summary
}

// Round4 rounds to four decimal places.
func Round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

// Percent scales an already rounded ratio to a two-place percentage.
func Percent(ratio float64) float64 {
	return math.Round(ratio*100*100) / 100
}
