package password

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, Verify("correct horse battery staple", hash))
	require.False(t, Verify("wrong password", hash))
	require.False(t, Verify("correct horse battery staple", "not-a-hash"))
}

func TestHashToken(t *testing.T) {
	first := HashToken("some.jwt.token")
	require.Len(t, first, 64)
	require.Equal(t, first, HashToken("some.jwt.token"))
	require.NotEqual(t, first, HashToken("some.jwt.tokeN"))
}
