package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	assert.Nil(t, splitTags(""))
	assert.Equal(t, []string{"CX: Billing: Refund", "CX: Tier1"},
		splitTags("CX: Billing: Refund,CX: Tier1"))
	// Stray whitespace and empty segments from sloppy rows are dropped.
	assert.Equal(t, []string{"CX: VIP"}, splitTags(" CX: VIP , ,"))
}
