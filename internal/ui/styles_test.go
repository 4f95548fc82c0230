package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortHashShortInput(t *testing.T) {
	assert.Equal(t, "0x1234", ShortHash("0x1234"))
}

func TestShortHashExactBoundary(t *testing.T) {
	assert.Equal(t, "0x123456789abc", ShortHash("0x123456789abc"))
}

func TestShortHashLongAddress(t *testing.T) {
	addr := "0x1234567890abcdef1234567890abcdef12345678"
	result := ShortHash(addr)
	assert.Equal(t, "0x12345678…5678", result)
	assert.Less(t, len(result), len(addr))
}

func TestShortHashEmpty(t *testing.T) {
	assert.Equal(t, "", ShortHash(""))
}
