package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnacct/vnacct/internal/utils"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, utils.CheckPasswordHash("correct-horse", hash))
	assert.False(t, utils.CheckPasswordHash("wrong-horse", hash))
}

func TestHashPasswordUsesGivenCost(t *testing.T) {
	hash, err := utils.HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestHashPasswordClampsOutOfRangeCost(t *testing.T) {
	hash, err := utils.HashPassword("secret", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, utils.DefaultBcryptCost, cost)
}
