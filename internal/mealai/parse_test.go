package mealai_test

import (
	"errors"
	"testing"

	"github.com/2beens/fitlog/internal/mealai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected mealai.Analysis
	}{
		{
			name: "plain json",
			raw:  `{"name":"Oatmeal","calories":350,"protein":12,"fat":6,"carbs":60,"confidence":"high"}`,
			expected: mealai.Analysis{
				Name: "Oatmeal", Calories: 350, Protein: 12, Fat: 6, Carbs: 60, Confidence: "high",
			},
		},
		{
			name: "code fenced",
			raw:  "```json\n{\"name\":\"Salad\",\"calories\":120,\"protein\":3,\"fat\":8,\"carbs\":9}\n```",
			expected: mealai.Analysis{
				Name: "Salad", Calories: 120, Protein: 3, Fat: 8, Carbs: 9,
			},
		},
		{
			name: "missing and string numbers",
			raw:  `{"name":" Steak ","calories":"640 kcal","protein":"52g","fat":null,"notes":"grilled"}`,
			expected: mealai.Analysis{
				Name: "Steak", Calories: 640, Protein: 52, Notes: "grilled",
			},
		},
		{
			name: "prose around the object",
			raw:  "Here is the estimate:\n{\"name\":\"Toast\",\"calories\":\"1,5e2\",\"confidence\":0.8}\nEnjoy!",
			expected: mealai.Analysis{
				Name: "Toast", Calories: 150, Confidence: "0.8",
			},
		},
		{
			name: "garbage number",
			raw:  `{"name":"Soup","calories":"a lot"}`,
			expected: mealai.Analysis{
				Name: "Soup",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := mealai.ParseAnalysis(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, *got)
		})
	}
}

func TestParseAnalysis_Failure(t *testing.T) {
	raw := "```json\nI could not see any food on this picture\n```"
	got, err := mealai.ParseAnalysis(raw)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, mealai.ErrParseFailed)

	var parseErr *mealai.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, raw, parseErr.Raw, "raw text kept for display")

	_, err = mealai.ParseAnalysis("")
	assert.ErrorIs(t, err, mealai.ErrParseFailed)

	_, err = mealai.ParseAnalysis(`{"name":"x","calories":[1,2]}`)
	assert.ErrorIs(t, err, mealai.ErrParseFailed)
}

func TestParseRecommendation(t *testing.T) {
	raw := "```\n" + `{
		"analysis": "Protein is low for the day.",
		"suggestions": [
			{"name": "Greek yogurt", "protein": "20", "calories": 150},
			"Chicken breast with rice"
		],
		"tip": "Eat slowly.",
		"warning": "Fat is over target."
	}` + "\n```"

	rec, err := mealai.ParseRecommendation(raw)
	require.NoError(t, err)
	assert.Equal(t, "Protein is low for the day.", rec.Analysis)
	require.Len(t, rec.Suggestions, 2)
	assert.Equal(t, mealai.Suggestion{Name: "Greek yogurt", Protein: 20, Calories: 150}, rec.Suggestions[0])
	assert.Equal(t, "Chicken breast with rice", rec.Suggestions[1].Name)
	assert.Equal(t, "Eat slowly.", rec.Tip)
	assert.Equal(t, "Fat is over target.", rec.Warning)

	rec, err = mealai.ParseRecommendation(`{"analysis":"ok","tip":"drink water"}`)
	require.NoError(t, err)
	assert.Empty(t, rec.Warning)
	assert.NotNil(t, rec.Suggestions)

	_, err = mealai.ParseRecommendation("not json at all")
	assert.ErrorIs(t, err, mealai.ErrParseFailed)
}
