package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))
	assert.False(t, CheckPasswordHash("secret123", "not-a-hash"))
}

func TestHashPassword_OutOfRangeCostFallsBackToDefault(t *testing.T) {
	hash, err := HashPassword("secret123", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPassword_RejectsOver72Bytes(t *testing.T) {
	_, err := HashPassword(strings.Repeat("é", 40), bcrypt.MinCost)
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}
