package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/rohits-web03/humandns/internal/api/handlers"
	"github.com/rohits-web03/humandns/internal/api/services"
	"github.com/rohits-web03/humandns/internal/models"
)

// fakeGithub serves the token and user endpoints of an OAuth provider.
func fakeGithub(t *testing.T, userID int, login, email string) (*httptest.Server, services.OAuthProviders) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "gh-token", "token_type": "bearer"})
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": userID, "login": login, "email": email, "name": "Octo Cat"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, services.OAuthProviders{
		models.MethodGithub: {
			Name: models.MethodGithub,
			Config: &oauth2.Config{
				ClientID:     "id",
				ClientSecret: "secret",
				RedirectURL:  "http://api.test/api/v1/auth/oauth/github/callback",
				Endpoint: oauth2.Endpoint{
					AuthURL:   srv.URL + "/authorize",
					TokenURL:  srv.URL + "/token",
					AuthStyle: oauth2.AuthStyleInParams,
				},
			},
			UserInfoURL: srv.URL + "/user",
		},
	}
}

// oauthLogin runs the login redirect and the callback, returning the final redirect.
func oauthLogin(t *testing.T, e *env) *url.URL {
	t.Helper()
	rec := e.request(http.MethodGet, "/api/v1/auth/oauth/github/login", "", nil)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	consent, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := consent.Query().Get("state")
	require.NotEmpty(t, state)

	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "oauth_state" {
			stateCookie = c
		}
	}
	require.NotNil(t, stateCookie)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/github/callback?code=abc&state="+url.QueryEscape(state), nil)
	req.AddCookie(stateCookie)
	rec = httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code, rec.Body.String())

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return loc
}

func TestOAuthCallbackCreatesUserWithChannels(t *testing.T) {
	_, providers := fakeGithub(t, 42, "Octo-Cat", "octo@example.com")
	e := newEnv(t, providers)

	loc := oauthLogin(t, e)
	assert.Equal(t, "app.test", loc.Host)
	assert.Equal(t, "/auth/callback/github", loc.Path)
	tok := loc.Query().Get("token")
	require.NotEmpty(t, tok)

	rec := e.request(http.MethodGet, "/api/v1/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[models.User](t, rec).Data
	assert.Equal(t, "octo-cat", me.Username)
	assert.Equal(t, "octo@example.com", me.Email)

	rec = e.request(http.MethodGet, "/api/v1/public/octo-cat/view", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[struct {
		Sections []struct {
			Name     string `json:"name"`
			Channels []struct {
				Href string `json:"href"`
			} `json:"channels"`
		} `json:"sections"`
	}](t, rec).Data
	require.Len(t, view.Sections, 1)
	assert.Equal(t, "OAuth", view.Sections[0].Name)
	require.Len(t, view.Sections[0].Channels, 1)
	assert.Equal(t, "https://github.com/Octo-Cat", view.Sections[0].Channels[0].Href)

	// logging in again neither duplicates the user nor the channel
	loc = oauthLogin(t, e)
	require.NotEmpty(t, loc.Query().Get("token"))
	channels, err := e.store.ListChannels(context.Background(), me.ID)
	require.NoError(t, err)
	assert.Len(t, channels, 1)
}

func TestOAuthCallbackLinksExistingEmail(t *testing.T) {
	_, providers := fakeGithub(t, 7, "alice-gh", "alice@example.com")
	e := newEnv(t, providers)
	alice, _ := e.seedUser("alice")

	loc := oauthLogin(t, e)
	require.NotEmpty(t, loc.Query().Get("token"))

	stored, err := e.store.GetUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "7", stored.ProviderID(models.MethodGithub))
	assert.Contains(t, stored.LoginMethods(), models.MethodGithub)

	// the linked account can now recover through GitHub
	rec := e.request(http.MethodPost, "/api/v1/auth/verify", "", handlers.VerifyInput{
		Email: "alice@example.com", Method: "github", OAuthToken: "gh-token",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode[handlers.TokenResponse](t, rec).Data.AccessToken)

	rec = e.request(http.MethodPost, "/api/v1/auth/verify", "", handlers.VerifyInput{
		Email: "alice@example.com", Method: "github", OAuthToken: "stolen",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOAuthRejectsBadState(t *testing.T) {
	_, providers := fakeGithub(t, 1, "octo", "octo@example.com")
	e := newEnv(t, providers)

	rec := e.request(http.MethodGet, "/api/v1/auth/oauth/github/callback?code=abc&state=forged", "", nil)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "http://app.test/login?error=invalid_state"))

	rec = e.request(http.MethodGet, "/api/v1/auth/oauth/myspace/login", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
