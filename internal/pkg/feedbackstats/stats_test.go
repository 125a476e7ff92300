package feedbackstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sub(ratings ...int) Submission {
	s := Submission{}
	for i, r := range ratings {
		s.Responses = append(s.Responses, Response{QuestionID: int64(i + 1), Criteria: "", Rating: r})
	}
	return s
}

func TestSummarize_NoResponses(t *testing.T) {
	got := Summarize(nil, 5)

	assert.Equal(t, 0, got.TotalResponses)
	assert.Equal(t, 0, got.TotalQuestions)
	assert.Zero(t, got.OverallRating)
	assert.Zero(t, got.OverallPercentage)
	assert.NotNil(t, got.AverageRatings)
	assert.Empty(t, got.AverageRatings)
	assert.Equal(t, 5, got.MaxRating)
}

func TestSummarize_PerfectScores(t *testing.T) {
	got := Summarize([]Submission{sub(5), sub(5)}, 5)

	require.Len(t, got.AverageRatings, 1)
	assert.Equal(t, 1.0, got.AverageRatings[0].Rating)
	assert.Equal(t, 100.0, got.AverageRatings[0].Percentage)
	assert.Equal(t, 2, got.AverageRatings[0].TotalResponses)
	assert.Equal(t, 1.0, got.OverallRating)
	assert.Equal(t, 100.0, got.OverallPercentage)
	assert.Equal(t, 2, got.TotalResponses)
	assert.Equal(t, 1, got.TotalQuestions)
}

func TestSummarize_TwoQuestions(t *testing.T) {
	got := Summarize([]Submission{sub(3, 5), sub(4, 2)}, 5)

	require.Len(t, got.AverageRatings, 2)
	assert.Equal(t, int64(1), got.AverageRatings[0].QuestionID)
	assert.Equal(t, 0.7, got.AverageRatings[0].Rating)
	assert.Equal(t, 70.0, got.AverageRatings[0].Percentage)
	assert.Equal(t, int64(2), got.AverageRatings[1].QuestionID)
	assert.Equal(t, 0.7, got.AverageRatings[1].Rating)
	assert.Equal(t, 70.0, got.AverageRatings[1].Percentage)
	assert.Equal(t, 0.7, got.OverallRating)
	assert.Equal(t, 70.0, got.OverallPercentage)
}

func TestSummarize_Rounding(t *testing.T) {
	// 1+1+2 over 3 respondents: 4/15 = 0.26666..
	got := Summarize([]Submission{sub(1), sub(1), sub(2)}, 5)

	require.Len(t, got.AverageRatings, 1)
	assert.Equal(t, 0.2667, got.AverageRatings[0].Rating)
	assert.Equal(t, 26.67, got.AverageRatings[0].Percentage)
}

func TestSummarize_QuestionsKeyedByID(t *testing.T) {
	a := Submission{Responses: []Response{{QuestionID: 9, Criteria: "Punctuality", Rating: 4}}}
	b := Submission{Responses: []Response{{QuestionID: 9, Criteria: "Punctual to class", Rating: 2}}}

	got := Summarize([]Submission{a, b}, 5)

	require.Len(t, got.AverageRatings, 1)
	assert.Equal(t, "Punctuality", got.AverageRatings[0].Criteria)
	assert.Equal(t, 0.6, got.AverageRatings[0].Rating)
}

func TestSummarize_DefaultScale(t *testing.T) {
	got := Summarize([]Submission{sub(5)}, 0)
	assert.Equal(t, DefaultMaxRating, got.MaxRating)
	assert.Equal(t, 1.0, got.OverallRating)
}
