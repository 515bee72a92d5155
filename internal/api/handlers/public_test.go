package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohits-web03/humandns/internal/api/handlers"
	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/profile"
)

func TestPublicProfileNotFoundVersusEmpty(t *testing.T) {
	e := newEnv(t, nil)
	e.seedUser("alice")

	rec := e.request(http.MethodGet, "/api/v1/public/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = e.request(http.MethodGet, "/api/v1/public/nobody/view", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.request(http.MethodGet, "/api/v1/public/alice/view", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[profile.View](t, rec).Data
	assert.True(t, view.Empty)
	assert.Empty(t, view.Sections)
	assert.Equal(t, "alice", view.DisplayName)
}

func TestPublicProfileHidesPrivateAndEmail(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")

	for _, in := range []handlers.ChannelInput{
		{Type: models.ChannelTelegram, Value: "@alice", SortOrder: 2},
		{Type: models.ChannelPhone, Value: "+1 555 0100", SortOrder: 1, IsPublic: ptr(false)},
		{Type: models.ChannelGithub, Value: "alice", SortOrder: 0},
	} {
		rec := e.request(http.MethodPost, "/api/v1/channels", tok, in)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := e.request(http.MethodGet, "/api/v1/public/alice", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "alice@example.com")
	p := decode[handlers.PublicProfile](t, rec).Data
	require.Len(t, p.Channels, 2)
	assert.Equal(t, models.ChannelGithub, p.Channels[0].Type)
	assert.Equal(t, models.ChannelTelegram, p.Channels[1].Type)

	rec = e.request(http.MethodGet, "/api/v1/public/alice/view", "", nil)
	view := decode[profile.View](t, rec).Data
	require.Len(t, view.Sections, 1)
	assert.Equal(t, "Other", view.Sections[0].Name)
	assert.Equal(t, "https://github.com/alice", view.Sections[0].Channels[0].Href)
	assert.Equal(t, "https://t.me/alice", view.Sections[0].Channels[1].Href)
	assert.False(t, view.IsOwner)

	// The owner sees private channels too.
	rec = e.request(http.MethodGet, "/api/v1/public/alice/view", tok, nil)
	view = decode[profile.View](t, rec).Data
	assert.True(t, view.IsOwner)
	require.Len(t, view.Sections, 1)
	assert.Len(t, view.Sections[0].Channels, 3)
}

func TestPublicProfileCacheIsInvalidated(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")

	rec := e.request(http.MethodGet, "/api/v1/public/alice", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cached, err := e.cache.Exists(context.Background(), "profile:alice")
	require.NoError(t, err)
	assert.True(t, cached)

	rec = e.request(http.MethodPost, "/api/v1/channels", tok, handlers.ChannelInput{Type: models.ChannelEmail, Value: "me@alice.dev"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.request(http.MethodGet, "/api/v1/public/alice", "", nil)
	assert.Len(t, decode[handlers.PublicProfile](t, rec).Data.Channels, 1)
}

func TestVCardAndQR(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")
	rec := e.request(http.MethodPut, "/api/v1/users/me", tok, handlers.ProfileUpdate{FirstName: ptr("Alice"), LastName: ptr("Liddell")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = e.request(http.MethodPost, "/api/v1/channels", tok, handlers.ChannelInput{Type: models.ChannelPhone, Value: "+15550100"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.request(http.MethodGet, "/api/v1/public/alice/vcard", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/vcard"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "alice.vcf")
	body := rec.Body.String()
	assert.Contains(t, body, "FN:Alice Liddell\r\n")
	assert.Contains(t, body, "TEL:+15550100\r\n")

	rec = e.request(http.MethodGet, "/api/v1/public/alice/qr?size=200", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = e.request(http.MethodGet, "/api/v1/public/alice/qr?size=5000", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = e.request(http.MethodGet, "/api/v1/public/nobody/qr", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "https://humandns.app/alice", handlers.ProfileURL("https://humandns.app", "alice"))
}
