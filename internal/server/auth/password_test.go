package auth

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, p := range []string{"Secret123!", "a", "пароль", strings.Repeat("x", 72)} {
		hashed, err := h.Hash(p)
		require.NoError(t, err)
		assert.NotEqual(t, p, hashed)
		assert.True(t, h.Verify(p, hashed), "password %q must verify", p)
		assert.False(t, h.Verify(p+"?", hashed), "different password must not verify")
	}
}

func TestBcryptHasher_SaltedPerCall(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("Secret123!")
	require.NoError(t, err)
	b, err := h.Hash("Secret123!")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("Secret123!", a))
	assert.True(t, h.Verify("Secret123!", b))
}

func TestBcryptHasher_InvalidInput(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash("")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("Secret123!", ""))
	assert.False(t, h.Verify("Secret123!", "not-a-bcrypt-hash"))
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	t.Parallel()
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
