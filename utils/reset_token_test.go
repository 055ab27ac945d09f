package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	raw, hash, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, raw, hash)

	// The stored hash must be recomputable from the raw token.
	assert.Equal(t, hash, HashResetToken(raw))
}

func TestGenerateResetTokenIsUnique(t *testing.T) {
	first, _, err := GenerateResetToken()
	require.NoError(t, err)
	second, _, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyResetToken(t *testing.T) {
	raw, hash, err := GenerateResetToken()
	require.NoError(t, err)

	issued := time.Now()
	expiry := issued.Add(ResetTokenTTLMinutes * time.Minute)

	tests := []struct {
		name       string
		raw        string
		storedHash string
		now        time.Time
		want       bool
	}{
		{"valid token within window", raw, hash, issued.Add(time.Minute), true},
		{"valid token at 29 minutes", raw, hash, issued.Add(29 * time.Minute), true},
		{"expired after 31 minutes", raw, hash, issued.Add(31 * time.Minute), false},
		{"wrong token", "deadbeef", hash, issued.Add(time.Minute), false},
		{"already consumed", raw, "", issued.Add(time.Minute), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VerifyResetToken(tc.raw, tc.storedHash, expiry, tc.now))
		})
	}
}
