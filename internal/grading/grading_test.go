package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeMixedAnswers(t *testing.T) {
	key := map[string]string{
		"q1": "a",
		"q2": "b",
		"q3": "c",
	}
	answers := map[string]string{
		"q1": "a", // right
		"q2": "d", // wrong
		// q3 absent → unanswered
	}

	b := Grade(key, answers, 0.5)

	assert.Equal(t, 1, b.Right)
	assert.Equal(t, 1, b.Wrong)
	assert.Equal(t, 1, b.Unanswered)
	assert.Equal(t, 1.0, b.Score)
	assert.Equal(t, 0.5, b.ScoreWithNegative)
}

func TestGradeIgnoresDeletedQuestions(t *testing.T) {
	// q_gone was removed from the exam between download and submission:
	// it must not count as right, wrong, or unanswered.
	key := map[string]string{
		"q1": "a",
		"q2": "b",
	}
	answers := map[string]string{
		"q1":     "a",
		"q2":     "b",
		"q_gone": "c",
	}

	b := Grade(key, answers, 0.25)

	assert.Equal(t, 2, b.Right)
	assert.Equal(t, 0, b.Wrong)
	assert.Equal(t, 0, b.Unanswered)
	assert.Equal(t, 2, b.Right+b.Wrong+b.Unanswered, "classified count must equal canonical set size")
}

func TestGradeEmptySelectionIsUnanswered(t *testing.T) {
	key := map[string]string{"q1": "a"}
	answers := map[string]string{"q1": ""}

	b := Grade(key, answers, 0.5)

	assert.Equal(t, 0, b.Right)
	assert.Equal(t, 0, b.Wrong)
	assert.Equal(t, 1, b.Unanswered)
	assert.Equal(t, 0.0, b.ScoreWithNegative, "unanswered questions contribute zero")
}

func TestGradeAllWrongGoesNegative(t *testing.T) {
	key := map[string]string{"q1": "a", "q2": "b"}
	answers := map[string]string{"q1": "x", "q2": "y"}

	b := Grade(key, answers, 0.5)

	assert.Equal(t, 0.0, b.Score)
	assert.Equal(t, -1.0, b.ScoreWithNegative)
}

func TestGradeEmptyKey(t *testing.T) {
	b := Grade(map[string]string{}, map[string]string{"q1": "a"}, 0.5)

	assert.Zero(t, b.Right)
	assert.Zero(t, b.Wrong)
	assert.Zero(t, b.Unanswered)
}
