package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	codec := TokenCodec{Secret: []byte("secret"), TTL: time.Hour}

	token, err := codec.Issue("user-1", time.Now())
	require.NoError(t, err)

	id, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestExpiredTokenRejected(t *testing.T) {
	codec := TokenCodec{Secret: []byte("secret"), TTL: time.Minute}

	token, err := codec.Issue("user-1", time.Now().Add(-2*time.Minute))
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTamperedTokenRejected(t *testing.T) {
	codec := TokenCodec{Secret: []byte("secret"), TTL: time.Hour}
	other := TokenCodec{Secret: []byte("different"), TTL: time.Hour}

	token, err := codec.Issue("user-1", time.Now())
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
