package model

import "time"

// SyncChanges groups every reference-data row changed since a watermark,
// keyed by entity type. Slices are never nil in responses so clients can
// iterate without presence checks.
type SyncChanges struct {
	Subjects  []Subject  `json:"subjects"`
	Lessons   []Lesson   `json:"lessons"`
	Topics    []Topic    `json:"topics"`
	Exams     []Exam     `json:"exams"`
	Questions []Question `json:"questions"`
}

// SyncResponse is the delta-sync payload. ServerTime is read from the same
// database snapshot as the rows and becomes the client's next watermark.
type SyncResponse struct {
	ServerTime time.Time   `json:"server_time"`
	Changes    SyncChanges `json:"changes"`
}

// Total returns the number of rows across all entity types.
func (c *SyncChanges) Total() int {
	return len(c.Subjects) + len(c.Lessons) + len(c.Topics) + len(c.Exams) + len(c.Questions)
}
