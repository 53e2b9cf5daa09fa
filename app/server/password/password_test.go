package password

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		want      string
		wantErr   bool
	}{
		{name: "default", algorithm: "", want: AlgorithmBcrypt},
		{name: "bcrypt", algorithm: AlgorithmBcrypt, want: AlgorithmBcrypt},
		{name: "argon2id", algorithm: AlgorithmArgon2id, want: AlgorithmArgon2id},
		{name: "unknown", algorithm: "md5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(tt.algorithm)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Algorithm())
		})
	}
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	for _, algorithm := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
		t.Run(algorithm, func(t *testing.T) {
			h, err := New(algorithm)
			require.NoError(t, err)

			digest, err := h.Hash("correct horse battery")
			require.NoError(t, err)
			assert.NotEqual(t, "correct horse battery", digest)
			assert.NotContains(t, digest, "correct horse battery")

			ok, err := h.Verify("correct horse battery", digest)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Verify("wrong password", digest)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestHash_IsSalted(t *testing.T) {
	h, err := New(AlgorithmBcrypt)
	require.NoError(t, err)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHash_BcryptCost(t *testing.T) {
	h, err := New(AlgorithmBcrypt)
	require.NoError(t, err)

	digest, err := h.Hash("secret123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)
}

func TestHash_Argon2idFormat(t *testing.T) {
	h, err := New(AlgorithmArgon2id)
	require.NoError(t, err)

	digest, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$"))
}

func TestVerify_AcceptsEitherFormat(t *testing.T) {
	bcryptHasher, err := New(AlgorithmBcrypt)
	require.NoError(t, err)
	argonHasher, err := New(AlgorithmArgon2id)
	require.NoError(t, err)

	legacy, err := bcryptHasher.Hash("secret123")
	require.NoError(t, err)

	ok, err := argonHasher.Verify("secret123", legacy)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHash_TooLongForBcrypt(t *testing.T) {
	h, err := New(AlgorithmBcrypt)
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrHashing)
}

func TestVerify_MalformedDigest(t *testing.T) {
	h, err := New(AlgorithmBcrypt)
	require.NoError(t, err)

	tests := []struct {
		name   string
		digest string
	}{
		{name: "garbage", digest: "invalidhash"},
		{name: "empty", digest: ""},
		{name: "broken argon2id", digest: "$argon2id$v=19$nonsense"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify("secret123", tt.digest)
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrHashing)
		})
	}
}
