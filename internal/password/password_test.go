package password_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/password"
)

func TestHashAndVerify(t *testing.T) {
	hasher := password.NewHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", digest)

	require.True(t, hasher.Verify("s3cret", digest))
	require.False(t, hasher.Verify("wrong", digest))
}

func TestHashesAreSalted(t *testing.T) {
	hasher := password.NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, hasher.Verify("same-password", first))
	require.True(t, hasher.Verify("same-password", second))
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	hasher := password.NewHasher(1000)

	digest, err := hasher.Hash("pw")
	require.NoError(t, err)
	require.True(t, hasher.Verify("pw", digest))
}
