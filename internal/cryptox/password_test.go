package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	encoded, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))
	assert.NotContains(t, encoded, "s3cret")

	ok, err := VerifyPassword(encoded, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPassword_WrongCandidate(t *testing.T) {
	encoded, err := HashPassword("s3cret")
	require.NoError(t, err)

	ok, err := VerifyPassword(encoded, "not-it")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "wrong scheme", encoded: "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"},
		{name: "bad salt b64", encoded: "$argon2id$v=19$m=65536,t=1,p=4$%%%$aGFzaA"},
		{name: "bad hash b64", encoded: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$%%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassword(tt.encoded, "whatever")
			assert.False(t, ok)
			assert.Error(t, err)
		})
	}
}
