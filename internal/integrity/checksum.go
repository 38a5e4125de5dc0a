// Package integrity computes the tamper-evidence checksum carried by attempt
// submissions. The client and server must agree on the exact encoding, so
// both sides call this package. The checksum covers token, exam and answer
// map only — the score is always recomputed server-side regardless, and the
// checksum serves as a secondary diagnostic signal.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Checksum returns the hex-encoded SHA-256 over a canonical encoding of
// (attempt token, exam ID, answer map). Answer entries are sorted by
// question ID so map iteration order cannot change the digest.
func Checksum(attemptUUID, examID string, answers map[string]string) string {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	sb.WriteString(attemptUUID)
	sb.WriteByte('|')
	sb.WriteString(examID)
	sb.WriteByte('|')
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(id)
		sb.WriteByte('=')
		sb.WriteString(answers[id])
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether the supplied checksum matches the recomputed one.
// Comparison is case-insensitive on the hex encoding.
func Verify(supplied, attemptUUID, examID string, answers map[string]string) bool {
	return strings.EqualFold(supplied, Checksum(attemptUUID, examID, answers))
}
