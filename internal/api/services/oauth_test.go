package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/rohits-web03/humandns/internal/config"
	"github.com/rohits-web03/humandns/internal/models"
)

func TestGithubIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/user":
			_, _ = w.Write([]byte(`{"id": 1234567, "login": "octo", "name": "Octo Cat Jr", "email": null, "avatar_url": "https://a/1"}`))
		case "/user/emails":
			_, _ = w.Write([]byte(`[{"email":"other@example.com","primary":false},{"email":"octo@example.com","primary":true}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := &OAuthProvider{
		Name:        models.MethodGithub,
		Config:      &oauth2.Config{},
		UserInfoURL: srv.URL + "/user",
		EmailsURL:   srv.URL + "/user/emails",
	}

	id, err := p.Identity(context.Background(), &oauth2.Token{AccessToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "1234567", id.ID)
	assert.Equal(t, "octo", id.Username)
	assert.Equal(t, "octo@example.com", id.Email)
	assert.Equal(t, "Octo", id.FirstName)
	assert.Equal(t, "Cat Jr", id.LastName)
}

func TestIdentityFailsOnProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := &OAuthProvider{Name: models.MethodDiscord, Config: &oauth2.Config{}, UserInfoURL: srv.URL}
	_, err := p.Identity(context.Background(), &oauth2.Token{AccessToken: "bad"})
	assert.Error(t, err)
}

func TestNewOAuthProvidersOnlyConfigured(t *testing.T) {
	providers := NewOAuthProviders(config.Config{
		APIBaseURL: "https://api.example",
		Github:     config.OAuthClient{ClientID: "id", ClientSecret: "secret"},
	})
	require.Len(t, providers, 1)
	assert.Equal(t, "https://api.example/api/v1/auth/oauth/github/callback", providers[models.MethodGithub].Config.RedirectURL)
}
