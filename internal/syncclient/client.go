package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/examtrack/examtrack-backend/internal/ledger"
	"github.com/examtrack/examtrack-backend/internal/model"
)

// Error codes mirrored from the server's in-band error envelope.
const (
	codeDuplicate        = "DUPLICATE"
	codeValidationError  = "VALIDATION_ERROR"
	codeSyncPrecondition = "SYNC_PRECONDITION_FAILED"
)

// ErrServerRejected wraps a non-retryable server rejection: the payload
// itself is bad and retrying the same bytes cannot succeed.
var ErrServerRejected = errors.New("server rejected submission")

// Client drives the two halves of the sync protocol against a server:
// watermark-based delta pulls into the local ledger, and at-least-once
// pushes of pending attempts out of it.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a sync client. token is the device JWT from registration.
func New(baseURL, token string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     log.With().Str("component", "sync_client").Logger(),
	}
}

type changesResponse struct {
	Success    bool              `json:"success"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	ServerTime time.Time         `json:"server_time"`
	Changes    model.SyncChanges `json:"changes"`
}

type submitResponse struct {
	Success       bool               `json:"success"`
	Code          string             `json:"code"`
	Message       string             `json:"message"`
	AlreadySynced bool               `json:"already_synced"`
	Data          *model.GradeResult `json:"data"`
}

// Pull fetches every change since the ledger's stored watermark and applies
// it locally. A nil watermark requests the full bootstrap. The new watermark
// is stored only after the change set commits, so a crash mid-apply replays
// the same window on the next pull.
func (c *Client) Pull(ctx context.Context, led *ledger.Ledger) (int, error) {
	since, err := led.Watermark(ctx)
	if err != nil {
		return 0, err
	}

	endpoint := c.baseURL + "/api/v1/sync/changes"
	if since != nil {
		endpoint += "?last_sync=" + url.QueryEscape(since.UTC().Format(time.RFC3339Nano))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("pull request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("pull: unexpected status %d", resp.StatusCode)
	}

	var body changesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("pull decode: %w", err)
	}
	if !body.Success {
		if body.Code == codeSyncPrecondition {
			return 0, fmt.Errorf("%w: %s", ErrServerRejected, body.Message)
		}
		return 0, fmt.Errorf("pull failed: %s (%s)", body.Message, body.Code)
	}

	if err := led.ApplyChanges(ctx, &body.Changes); err != nil {
		return 0, fmt.Errorf("apply changes: %w", err)
	}
	if err := led.SetWatermark(ctx, body.ServerTime); err != nil {
		return 0, fmt.Errorf("advance watermark: %w", err)
	}

	total := body.Changes.Total()
	c.log.Info().
		Int("rows", total).
		Bool("bootstrap", since == nil).
		Time("server_time", body.ServerTime).
		Msg("Pull applied")
	return total, nil
}

// PushResult summarizes one Push run.
type PushResult struct {
	Synced    int
	Duplicate int
	Failed    int
}

// Push uploads every pending attempt. Delivery is at-least-once: an attempt
// is marked synced when the server grades it OR reports its token as already
// graded (a retransmission after a lost response). Transport and storage
// errors leave the attempt pending for the next run; a validation rejection
// is surfaced, never silently dropped.
func (c *Client) Push(ctx context.Context, led *ledger.Ledger) (*PushResult, error) {
	pending, err := led.PendingAttempts(ctx)
	if err != nil {
		return nil, err
	}

	result := &PushResult{}
	var firstRejection error

	for _, attempt := range pending {
		body, err := c.submit(ctx, &attempt)
		if err != nil {
			if errors.Is(err, ErrServerRejected) && firstRejection == nil {
				firstRejection = err
			}
			c.log.Warn().Err(err).
				Str("attempt_token", attempt.AttemptToken).
				Msg("Push attempt failed, will retry")
			result.Failed++
			continue
		}

		if body.AlreadySynced {
			result.Duplicate++
		} else {
			result.Synced++
		}
		if err := led.MarkSynced(ctx, attempt.AttemptToken); err != nil {
			return result, err
		}
	}

	c.log.Info().
		Int("synced", result.Synced).
		Int("duplicate", result.Duplicate).
		Int("failed", result.Failed).
		Msg("Push finished")

	if firstRejection != nil {
		return result, firstRejection
	}
	return result, nil
}

func (c *Client) submit(ctx context.Context, attempt *ledger.PendingAttempt) (*submitResponse, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"attempt_uuid":  attempt.AttemptToken,
		"exam_id":       attempt.ExamID,
		"answers":       attempt.Answers,
		"start_time":    attempt.StartedAt,
		"end_time":      attempt.EndedAt,
		"duration_used": attempt.DurationSeconds,
		"checksum":      attempt.Checksum,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/sync/attempts", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("submit: unexpected status %d", resp.StatusCode)
	}

	var body submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("submit decode: %w", err)
	}

	// DUPLICATE travels as success=false but means the server already holds
	// this attempt; treat it as delivered.
	if !body.Success && !body.AlreadySynced {
		if body.Code == codeValidationError {
			return nil, fmt.Errorf("%w: %s", ErrServerRejected, body.Message)
		}
		return nil, fmt.Errorf("submit failed: %s (%s)", body.Message, body.Code)
	}

	return &body, nil
}

// Register enrolls a device and returns the sync token. Used by the CLI
// before a Client exists, hence the package-level function.
func Register(ctx context.Context, baseURL, deviceUUID, name string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"device_uuid": deviceUUID,
		"name":        name,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		baseURL+"/api/v1/auth/device/register", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("register request: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("register decode: %w", err)
	}
	if !body.Success {
		return "", fmt.Errorf("register failed: %s", body.Message)
	}
	return body.Data.Token, nil
}
