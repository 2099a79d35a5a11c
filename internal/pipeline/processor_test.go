package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 10))
	assert.Equal(t, "abc", truncateRunes("abcdef", 3))
	// Truncation must never split a multi-byte rune.
	assert.Equal(t, "héllo", truncateRunes("héllo wörld", 5))
}
