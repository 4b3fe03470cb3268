package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, IsHashed(hashed))
	assert.True(t, VerifyPassword(hashed, "hunter2"))
	assert.False(t, VerifyPassword(hashed, "hunter3"))

	assert.True(t, VerifyPassword("plain", "plain"))
	assert.False(t, VerifyPassword("plain", "Plain"))
	assert.False(t, VerifyPassword("", "x"))
}

func TestSHA256Hex(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		SHA256Hex(nil))
}
