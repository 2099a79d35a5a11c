package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolKeyIsOrderInsensitive(t *testing.T) {
	a := poolKey([]string{"CX: Billing: Refund", "CX: Tier1"})
	b := poolKey([]string{"CX: Tier1", "CX: Billing: Refund"})
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "match:pool:"))

	c := poolKey([]string{"CX: Tier1"})
	assert.NotEqual(t, a, c)
}
