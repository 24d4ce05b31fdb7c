package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestSignVerify_RoundTrip(t *testing.T) {
	t.Parallel()
	codec := NewTokenCodec([]byte("super-secret"), WithClock(fixedClock))

	in := Claims{UserID: 42, Email: "a@x.com", TokenVersion: 3, Type: TokenTypeAccess}
	tok, err := codec.Sign(in, 15*time.Minute)
	require.NoError(t, err)

	got, err := codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, in.UserID, got.UserID)
	assert.Equal(t, in.Email, got.Email)
	assert.Equal(t, in.TokenVersion, got.TokenVersion)
	assert.Equal(t, in.Type, got.Type)
	assert.True(t, fixedNow.Equal(got.IssuedAt.Time))
	assert.True(t, fixedNow.Add(15*time.Minute).Equal(got.ExpiresAt.Time))
	assert.NotEmpty(t, got.ID)
}

func TestCodec_EmptySecretRefusesToSignOrVerify(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, ValidateSecret(nil), ErrEmptySecret)
	assert.ErrorIs(t, ValidateSecret([]byte("")), ErrEmptySecret)
	assert.NoError(t, ValidateSecret([]byte("k")))

	empty := NewTokenCodec([]byte(""), WithClock(fixedClock))
	tok, err := empty.Sign(Claims{UserID: 1, Type: TokenTypeAccess}, time.Minute)
	assert.ErrorIs(t, err, ErrEmptySecret)
	assert.Empty(t, tok)

	// a token forged with an empty HMAC key is rejected too
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour))},
		UserID:           1,
		Type:             TokenTypeAccess,
	}).SignedString([]byte(""))
	require.NoError(t, err)

	_, err = empty.Verify(forged)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestSign_UniqueTokenIDs(t *testing.T) {
	t.Parallel()
	codec := NewTokenCodec([]byte("k"), WithClock(fixedClock))

	claims := Claims{UserID: 1, Type: TokenTypeRefresh}
	a, err := codec.Sign(claims, time.Hour)
	require.NoError(t, err)
	b, err := codec.Sign(claims, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_ZeroTTLIsExpired(t *testing.T) {
	t.Parallel()
	codec := NewTokenCodec([]byte("k"), WithClock(fixedClock))

	tok, err := codec.Sign(Claims{UserID: 1, Type: TokenTypeAccess}, 0)
	require.NoError(t, err)

	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_ExpiresWhenClockPassesTTL(t *testing.T) {
	t.Parallel()
	now := fixedNow
	codec := NewTokenCodec([]byte("k"), WithClock(func() time.Time { return now }))

	tok, err := codec.Sign(Claims{UserID: 1, Type: TokenTypeAccess}, 15*time.Minute)
	require.NoError(t, err)

	now = fixedNow.Add(14 * time.Minute)
	_, err = codec.Verify(tok)
	require.NoError(t, err)

	now = fixedNow.Add(15 * time.Minute)
	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	tok, err := NewTokenCodec([]byte("right-secret")).Sign(Claims{UserID: 2, Type: TokenTypeAccess}, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenCodec([]byte("wrong-secret")).Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_ExpiredWithWrongSecretIsInvalid(t *testing.T) {
	t.Parallel()
	tok, err := NewTokenCodec([]byte("right-secret")).Sign(Claims{UserID: 2, Type: TokenTypeAccess}, -time.Hour)
	require.NoError(t, err)

	_, err = NewTokenCodec([]byte("wrong-secret")).Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()
	codec := NewTokenCodec([]byte("k"))

	for _, tok := range []string{"", "not.a.jwt", "abc", strings.Repeat("a.", 3)} {
		_, err := codec.Verify(tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken, "token %q", tok)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()
	codec := NewTokenCodec([]byte("k"))

	tok, err := codec.Sign(Claims{UserID: 1, Type: TokenTypeAccess}, time.Hour)
	require.NoError(t, err)
	other, err := codec.Sign(Claims{UserID: 999, Type: TokenTypeAccess}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = codec.Verify(forged)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	secret := []byte("k")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           1,
		Type:             TokenTypeAccess,
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenCodec(secret).Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           1,
		Type:             TokenTypeAccess,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenCodec(secret).Verify(none)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	t.Parallel()
	secret := []byte("k")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, Type: TokenTypeAccess}).SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenCodec(secret).Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_UnknownTypeOrMissingUser(t *testing.T) {
	t.Parallel()
	codec := NewTokenCodec([]byte("k"))

	tok, err := codec.Sign(Claims{UserID: 1, Type: "admin"}, time.Hour)
	require.NoError(t, err)
	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	tok, err = codec.Sign(Claims{Type: TokenTypeAccess}, time.Hour)
	require.NoError(t, err)
	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
