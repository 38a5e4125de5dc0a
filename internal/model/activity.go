package model

import (
	"encoding/json"
	"time"
)

// ActivityEvent is the queue payload pushed to Redis by endpoints that
// record an activity-log row. The worker batches these into PostgreSQL.
type ActivityEvent struct {
	Action string          `json:"action"`
	Detail json.RawMessage `json:"detail"`
	At     time.Time       `json:"at"`
}
