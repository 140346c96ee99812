package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndCompare(t *testing.T) {
	hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, ComparePassword(hash, "correct horse battery"))
	assert.Error(t, ComparePassword(hash, "wrong password"))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	first, err := HashPassword("same password", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("same password", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
