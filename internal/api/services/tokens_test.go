package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	tok, exp, err := m.Generate(42)
	require.NoError(t, err)

	id, gotExp, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.WithinDuration(t, exp, gotExp, time.Second)
}

func TestTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	tok, _, err := m.Generate(1)
	require.NoError(t, err)

	_, _, err = NewTokenManager("other", time.Hour).Verify(tok)
	assert.Error(t, err)

	later := NewTokenManager("secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, _, err = later.Verify(tok)
	assert.Error(t, err)

	_, _, err = m.Verify("not-a-token")
	assert.Error(t, err)
}
