package integrity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumIsDeterministic(t *testing.T) {
	answers := map[string]string{"q2": "b", "q1": "a", "q3": ""}

	first := Checksum("token-1", "exam-1", answers)
	second := Checksum("token-1", "exam-1", answers)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestChecksumChangesWithAnyInput(t *testing.T) {
	answers := map[string]string{"q1": "a"}
	base := Checksum("token-1", "exam-1", answers)

	assert.NotEqual(t, base, Checksum("token-2", "exam-1", answers))
	assert.NotEqual(t, base, Checksum("token-1", "exam-2", answers))
	assert.NotEqual(t, base, Checksum("token-1", "exam-1", map[string]string{"q1": "b"}))
}

func TestVerifyCaseInsensitive(t *testing.T) {
	answers := map[string]string{"q1": "a"}
	sum := Checksum("token-1", "exam-1", answers)

	assert.True(t, Verify(strings.ToUpper(sum), "token-1", "exam-1", answers))
	assert.False(t, Verify(sum, "token-1", "exam-1", map[string]string{"q1": "x"}))
}
