package jwt

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	_, err := New("", time.Hour)
	assert.Error(t, err)

	_, err = New("secret", 0)
	assert.Error(t, err)

	j, err := New("secret", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, j.TTL())
}

func TestSignAndParse_Success(t *testing.T) {
	t.Parallel()

	j, err := New("super-secret", time.Hour)
	require.NoError(t, err)

	issuedAt := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return issuedAt }

	in := &User{ID: 7, Email: "alice@example.com", Role: "admin"}
	tok, err := j.SignToken(in)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour).Unix(), in.Expires)

	got, err := j.ParseUser(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, in.Expires, got.Expires)
}

func TestParseUser_Expired(t *testing.T) {
	t.Parallel()

	j, err := New("secret", time.Hour)
	require.NoError(t, err)

	issuedAt := time.Now().Add(-2 * time.Hour)
	j.now = func() time.Time { return issuedAt }
	tok, err := j.SignToken(&User{ID: 1, Email: "u1@example.com", Role: "user"})
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.ParseUser(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseUser_WrongSecret(t *testing.T) {
	t.Parallel()

	signer, err := New("right-secret", time.Hour)
	require.NoError(t, err)
	verifier, err := New("wrong-secret", time.Hour)
	require.NoError(t, err)

	tok, err := signer.SignToken(&User{ID: 2, Email: "u2@example.com", Role: "user"})
	require.NoError(t, err)

	_, err = verifier.ParseUser(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseUser_Tampered(t *testing.T) {
	t.Parallel()

	j, err := New("secret", time.Hour)
	require.NoError(t, err)

	tok, err := j.SignToken(&User{ID: 3, Email: "u3@example.com", Role: "user"})
	require.NoError(t, err)

	// 换一个别人签的 payload，保留原签名
	other, err := New("other", time.Hour)
	require.NoError(t, err)
	forged, err := other.SignToken(&User{ID: 3, Email: "u3@example.com", Role: "admin"})
	require.NoError(t, err)

	tokParts := splitToken(t, tok)
	forgedParts := splitToken(t, forged)
	_, err = j.ParseUser(tokParts[0] + "." + forgedParts[1] + "." + tokParts[2])
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseUser_RejectsOtherMethods(t *testing.T) {
	t.Parallel()

	j, err := New("secret", time.Hour)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  1,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tok, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = j.ParseUser(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseUser_MissingClaims(t *testing.T) {
	t.Parallel()

	j, err := New("secret", time.Hour)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": 1}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = j.ParseUser(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = j.ParseUser(noID)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseUser_Malformed(t *testing.T) {
	t.Parallel()

	j, err := New("k", time.Hour)
	require.NoError(t, err)

	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := j.ParseUser(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func splitToken(t *testing.T, tok string) []string {
	t.Helper()
	var parts []string
	start := 0
	for i := 0; i < len(tok); i++ {
		if tok[i] == '.' {
			parts = append(parts, tok[start:i])
			start = i + 1
		}
	}
	parts = append(parts, tok[start:])
	require.Len(t, parts, 3)
	return parts
}
