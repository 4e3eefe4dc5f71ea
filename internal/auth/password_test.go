package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	hasher := testHasher()

	t.Run("fresh salt per call", func(t *testing.T) {
		first, err := hasher.Hash("secret")
		require.NoError(t, err)
		second, err := hasher.Hash("secret")
		require.NoError(t, err)

		assert.NotEqual(t, first, second, "identical input must hash differently across calls")
	})

	t.Run("verify round trip", func(t *testing.T) {
		hash, err := hasher.Hash("secret")
		require.NoError(t, err)

		assert.True(t, hasher.Verify("secret", hash))
		assert.False(t, hasher.Verify("wrong", hash))
		assert.False(t, hasher.Verify("", hash))
	})

	t.Run("garbage stored hash never verifies", func(t *testing.T) {
		assert.False(t, hasher.Verify("secret", "not-a-bcrypt-hash"))
		assert.False(t, hasher.Verify("secret", ""))
	})

	t.Run("zero cost falls back to default", func(t *testing.T) {
		zero := &BcryptHasher{}
		hash, err := zero.Hash("secret")
		require.NoError(t, err)
		assert.True(t, zero.Verify("secret", hash))
	})
}

func TestUUIDGeneratorUniqueness(t *testing.T) {
	gen := UUIDGenerator{}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := gen.NewToken()
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.False(t, seen[token], "token %q issued twice", token)
		seen[token] = true
	}
}
