// Package grading implements the authoritative scoring rules shared by the
// server-side grading service and the client-side preview in the ledger.
package grading

// Breakdown is the result of classifying a submission against an answer key.
type Breakdown struct {
	Right             int
	Wrong             int
	Unanswered        int
	Score             float64
	ScoreWithNegative float64
}

// Grade classifies every question in the canonical answer key against the
// submitted answer map and computes both scores.
//
// Rules:
//   - unanswered: question missing from the answer map, or mapped to ""
//   - right: submitted option equals the canonical option
//   - wrong: anything else
//   - submission keys absent from the canonical set are ignored entirely
//     (the question was deleted or edited after the client downloaded it)
//   - score = right; scoreWithNegative = right − wrong × negativeMark
func Grade(answerKey map[string]string, answers map[string]string, negativeMark float64) Breakdown {
	var b Breakdown
	for questionID, correct := range answerKey {
		selected, ok := answers[questionID]
		switch {
		case !ok || selected == "":
			b.Unanswered++
		case selected == correct:
			b.Right++
		default:
			b.Wrong++
		}
	}

	b.Score = float64(b.Right)
	b.ScoreWithNegative = float64(b.Right) - float64(b.Wrong)*negativeMark
	return b
}
