package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examtrack/examtrack-backend/internal/integrity"
	"github.com/examtrack/examtrack-backend/internal/model"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	led, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { led.Close() })
	return led
}

func sampleChanges(t *testing.T) *model.SyncChanges {
	t.Helper()
	now := time.Now().UTC()

	examID := uuid.New()
	q1 := uuid.New()
	q2 := uuid.New()

	return &model.SyncChanges{
		Subjects: []model.Subject{
			{ID: 1, Name: "Physics", UpdatedAt: now},
		},
		Lessons: []model.Lesson{
			{ID: 10, SubjectID: 1, Name: "Mechanics", UpdatedAt: now},
		},
		Topics: []model.Topic{
			{ID: 100, LessonID: 10, Name: "Kinematics", UpdatedAt: now},
		},
		Exams: []model.Exam{
			{ID: examID, Title: "Weekly Test", DurationMinutes: 30, TotalMarks: 2, NegativeMark: 0.5, UpdatedAt: now},
		},
		Questions: []model.Question{
			{ID: q1, ExamID: examID, Prompt: "Q1", Options: json.RawMessage(`{"A":"1","B":"2"}`), CorrectOption: "A", UpdatedAt: now},
			{ID: q2, ExamID: examID, Prompt: "Q2", Options: json.RawMessage(`{"A":"1","B":"2"}`), CorrectOption: "B", UpdatedAt: now},
		},
	}
}

func TestWatermarkRoundTrip(t *testing.T) {
	led := openTestLedger(t)
	ctx := context.Background()

	wm, err := led.Watermark(ctx)
	require.NoError(t, err)
	assert.Nil(t, wm, "fresh ledger has no watermark")

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, led.SetWatermark(ctx, ts))

	wm, err = led.Watermark(ctx)
	require.NoError(t, err)
	require.NotNil(t, wm)
	assert.True(t, wm.Equal(ts))
}

func TestApplyChangesBootstrap(t *testing.T) {
	led := openTestLedger(t)
	ctx := context.Background()

	changes := sampleChanges(t)
	require.NoError(t, led.ApplyChanges(ctx, changes))

	counts, err := led.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["subjects"])
	assert.Equal(t, 1, counts["lessons"])
	assert.Equal(t, 1, counts["topics"])
	assert.Equal(t, 1, counts["exams"])
	assert.Equal(t, 2, counts["questions"])

	exam, err := led.Exam(ctx, changes.Exams[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Weekly Test", exam.Title)
	assert.Equal(t, 0.5, exam.NegativeMark)
}

func TestApplyChangesIsIdempotent(t *testing.T) {
	led := openTestLedger(t)
	ctx := context.Background()

	changes := sampleChanges(t)
	require.NoError(t, led.ApplyChanges(ctx, changes))
	// Replaying the same change set (at-least-once delivery) must converge.
	require.NoError(t, led.ApplyChanges(ctx, changes))

	counts, err := led.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["questions"])
	assert.Equal(t, 1, counts["exams"])
}

func TestApplyChangesOverwritesByID(t *testing.T) {
	led := openTestLedger(t)
	ctx := context.Background()

	changes := sampleChanges(t)
	require.NoError(t, led.ApplyChanges(ctx, changes))

	renamed := *changes
	renamed.Subjects = []model.Subject{{ID: 1, Name: "Applied Physics", UpdatedAt: time.Now().UTC()}}
	require.NoError(t, led.ApplyChanges(ctx, &renamed))

	counts, err := led.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["subjects"], "upsert must not duplicate the row")
}

func TestApplyChangesTombstoneDeletesRow(t *testing.T) {
	led := openTestLedger(t)
	ctx := context.Background()

	changes := sampleChanges(t)
	require.NoError(t, led.ApplyChanges(ctx, changes))

	tombstones := &model.SyncChanges{
		Questions: []model.Question{
			{ID: changes.Questions[0].ID, ExamID: changes.Exams[0].ID, IsDeleted: true, UpdatedAt: time.Now().UTC()},
		},
	}
	require.NoError(t, led.ApplyChanges(ctx, tombstones))

	key, err := led.AnswerKey(ctx, changes.Exams[0].ID.String())
	require.NoError(t, err)
	assert.Len(t, key, 1)
	assert.NotContains(t, key, changes.Questions[0].ID.String())
}

func TestApplyChangesExamTombstoneCascades(t *testing.T) {
	led := openTestLedger(t)
	ctx := context.Background()

	changes := sampleChanges(t)
	require.NoError(t, led.ApplyChanges(ctx, changes))

	tombstones := &model.SyncChanges{
		Exams: []model.Exam{{ID: changes.Exams[0].ID, IsDeleted: true, UpdatedAt: time.Now().UTC()}},
	}
	require.NoError(t, led.ApplyChanges(ctx, tombstones))

	counts, err := led.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, counts["exams"])
	assert.Equal(t, 0, counts["questions"])
}

func TestRecordAttemptDurableAndChecksummed(t *testing.T) {
	led := openTestLedger(t)
	ctx := context.Background()

	changes := sampleChanges(t)
	require.NoError(t, led.ApplyChanges(ctx, changes))

	examID := changes.Exams[0].ID.String()
	answers := map[string]string{
		changes.Questions[0].ID.String(): "A", // right
		changes.Questions[1].ID.String(): "A", // wrong
	}

	start := time.Now().Add(-10 * time.Minute)
	end := time.Now()

	attempt, err := led.RecordAttempt(ctx, examID, answers, start, end)
	require.NoError(t, err)
	assert.NotEmpty(t, attempt.AttemptToken)
	assert.True(t, integrity.Verify(attempt.Checksum, attempt.AttemptToken, examID, answers))

	// Local preview: 1 right, 1 wrong at weight 0.5 → 0.5
	require.NotNil(t, attempt.LocalScore)
	assert.InDelta(t, 0.5, *attempt.LocalScore, 1e-9)

	pending, err := led.PendingAttempts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, attempt.AttemptToken, pending[0].AttemptToken)
	assert.Equal(t, answers, pending[0].Answers)
}

func TestRecordAttemptWithoutReplicaSkipsPreview(t *testing.T) {
	led := openTestLedger(t)
	ctx := context.Background()

	attempt, err := led.RecordAttempt(ctx, uuid.New().String(),
		map[string]string{"q": "A"}, time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)
	assert.Nil(t, attempt.LocalScore, "no replica means no provisional score")
}

func TestMarkSyncedClearsPendingQueue(t *testing.T) {
	led := openTestLedger(t)
	ctx := context.Background()

	attempt, err := led.RecordAttempt(ctx, uuid.New().String(),
		map[string]string{"q": "A"}, time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)

	require.NoError(t, led.MarkSynced(ctx, attempt.AttemptToken))

	pending, err := led.PendingAttempts(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	err = led.MarkSynced(ctx, "no-such-token")
	assert.Error(t, err)
}
