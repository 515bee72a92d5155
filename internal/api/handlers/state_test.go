package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	state, err := GenerateState("secret", map[string]string{"provider": "github"})
	require.NoError(t, err)

	data, err := DecodeState("secret", state)
	require.NoError(t, err)
	assert.Equal(t, "github", data["provider"])

	other, err := GenerateState("secret", map[string]string{"provider": "github"})
	require.NoError(t, err)
	assert.NotEqual(t, state, other)
}

func TestStateRejectsTampering(t *testing.T) {
	state, err := GenerateState("secret", map[string]string{"provider": "github"})
	require.NoError(t, err)

	_, err = DecodeState("other-secret", state)
	assert.Error(t, err)

	parts := strings.Split(state, ".")
	forged, err := GenerateState("attacker", map[string]string{"provider": "google"})
	require.NoError(t, err)
	forgedParts := strings.Split(forged, ".")
	_, err = DecodeState("secret", parts[0]+"."+forgedParts[1]+"."+parts[2])
	assert.Error(t, err)

	_, err = DecodeState("secret", "not-a-state")
	assert.Error(t, err)
}

func TestSanitizeUsername(t *testing.T) {
	assert.Equal(t, "octo-cat", sanitizeUsername("Octo-Cat"))
	assert.Equal(t, "jrgen", sanitizeUsername("Jürgen!"))
	assert.Equal(t, "", sanitizeUsername("@@"))
}
