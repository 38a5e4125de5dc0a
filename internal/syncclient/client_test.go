package syncclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examtrack/examtrack-backend/internal/ledger"
	"github.com/examtrack/examtrack-backend/internal/model"
)

func testLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	led, err := ledger.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { led.Close() })
	return led
}

func TestPullBootstrapThenDelta(t *testing.T) {
	serverTime := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	var lastSyncSeen atomic.Value
	lastSyncSeen.Store("")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/sync/changes", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		lastSyncSeen.Store(r.URL.Query().Get("last_sync"))

		resp := map[string]interface{}{
			"success":     true,
			"server_time": serverTime,
			"changes": model.SyncChanges{
				Subjects: []model.Subject{{ID: 1, Name: "Math", UpdatedAt: serverTime}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	led := testLedger(t)
	client := New(srv.URL, "test-token", zerolog.Nop())

	// Bootstrap: no watermark yet, no last_sync param.
	rows, err := client.Pull(context.Background(), led)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.Equal(t, "", lastSyncSeen.Load())

	wm, err := led.Watermark(context.Background())
	require.NoError(t, err)
	require.NotNil(t, wm)
	assert.True(t, wm.Equal(serverTime))

	// Delta: the stored watermark rides along.
	_, err = client.Pull(context.Background(), led)
	require.NoError(t, err)
	assert.NotEmpty(t, lastSyncSeen.Load())
}

func TestPullSurfacesSyncPrecondition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"code":    "SYNC_PRECONDITION_FAILED",
			"message": "sync schema not migrated",
		})
	}))
	defer srv.Close()

	led := testLedger(t)
	client := New(srv.URL, "test-token", zerolog.Nop())

	_, err := client.Pull(context.Background(), led)
	require.ErrorIs(t, err, ErrServerRejected)
}

func TestPushMarksSyncedOnSuccess(t *testing.T) {
	var submissions int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/sync/attempts", r.URL.Path)
		atomic.AddInt32(&submissions, 1)

		var sub model.AttemptSubmission
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.NotEmpty(t, sub.AttemptUUID)
		assert.Len(t, sub.Checksum, 64)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    model.GradeResult{AttemptID: 1, Score: 1},
		})
	}))
	defer srv.Close()

	led := testLedger(t)
	ctx := context.Background()

	_, err := led.RecordAttempt(ctx, uuid.New().String(),
		map[string]string{"q": "A"}, time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)

	client := New(srv.URL, "test-token", zerolog.Nop())
	result, err := client.Push(ctx, led)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, int32(1), atomic.LoadInt32(&submissions))

	pending, err := led.PendingAttempts(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Nothing left: a second push sends nothing.
	result, err = client.Push(ctx, led)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, int32(1), atomic.LoadInt32(&submissions))
}

func TestPushTreatsDuplicateAsDelivered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":        false,
			"code":           "DUPLICATE",
			"message":        "attempt already recorded",
			"already_synced": true,
		})
	}))
	defer srv.Close()

	led := testLedger(t)
	ctx := context.Background()

	_, err := led.RecordAttempt(ctx, uuid.New().String(),
		map[string]string{"q": "A"}, time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)

	client := New(srv.URL, "test-token", zerolog.Nop())
	result, err := client.Push(ctx, led)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Duplicate)
	assert.Equal(t, 0, result.Synced)

	pending, err := led.PendingAttempts(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "a duplicate ack clears the pending queue")
}

func TestPushKeepsPendingOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	led := testLedger(t)
	ctx := context.Background()

	_, err := led.RecordAttempt(ctx, uuid.New().String(),
		map[string]string{"q": "A"}, time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)

	client := New(srv.URL, "test-token", zerolog.Nop())
	result, err := client.Push(ctx, led)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	pending, err := led.PendingAttempts(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1, "failed uploads stay queued for retry")
}

func TestPushSurfacesValidationRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"code":    "VALIDATION_ERROR",
			"message": "checksum must be 64 hex characters",
		})
	}))
	defer srv.Close()

	led := testLedger(t)
	ctx := context.Background()

	_, err := led.RecordAttempt(ctx, uuid.New().String(),
		map[string]string{"q": "A"}, time.Now().Add(-time.Minute), time.Now())
	require.NoError(t, err)

	client := New(srv.URL, "test-token", zerolog.Nop())
	result, err := client.Push(ctx, led)
	require.ErrorIs(t, err, ErrServerRejected)
	assert.Equal(t, 1, result.Failed)
}
