package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	b := NewBcrypt(bcrypt.MinCost)

	h, err := b.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", h)

	assert.True(t, b.Verify("correct horse battery staple", h))
	assert.False(t, b.Verify("wrong password", h))
}

func TestHashesAreSalted(t *testing.T) {
	b := NewBcrypt(bcrypt.MinCost)

	h1, err := b.Hash("same-password")
	require.NoError(t, err)
	h2, err := b.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyMalformedHash(t *testing.T) {
	b := NewBcrypt(bcrypt.MinCost)
	assert.False(t, b.Verify("anything", "not-a-bcrypt-hash"))
	assert.False(t, b.Verify("anything", ""))
}

func TestCostClamping(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(-5).cost)
	assert.Equal(t, bcrypt.MaxCost, NewBcrypt(99).cost)
	assert.Equal(t, 12, NewBcrypt(12).cost)
}
