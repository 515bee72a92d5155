package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohits-web03/humandns/internal/api/handlers"
	"github.com/rohits-web03/humandns/internal/models"
)

func TestRegisterLoginLogout(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.request(http.MethodPost, "/api/v1/auth/register", "", handlers.RegisterInput{
		Username: "alice", Email: "Alice@Example.com", Password: testPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.User](t, rec)
	assert.Equal(t, "alice@example.com", created.Data.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = e.request(http.MethodPost, "/api/v1/auth/login", "", handlers.LoginInput{
		Email: "alice@example.com", Password: testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[handlers.TokenResponse](t, rec)
	assert.Equal(t, "bearer", login.Data.TokenType)
	require.NotEmpty(t, login.Data.AccessToken)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	rec = e.request(http.MethodGet, "/api/v1/auth/me", login.Data.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[models.User](t, rec).Data.Username)

	rec = e.request(http.MethodPost, "/api/v1/auth/logout", login.Data.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.request(http.MethodGet, "/api/v1/auth/me", login.Data.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t, nil)
	e.seedUser("taken")

	cases := []struct {
		name  string
		input handlers.RegisterInput
	}{
		{"short username", handlers.RegisterInput{Username: "ab", Email: "ab@example.com", Password: testPassword}},
		{"bad username", handlers.RegisterInput{Username: "a b/c", Email: "abc@example.com", Password: testPassword}},
		{"bad email", handlers.RegisterInput{Username: "bob", Email: "not-an-email", Password: testPassword}},
		{"short password", handlers.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "short"}},
		{"duplicate email", handlers.RegisterInput{Username: "bob", Email: "taken@example.com", Password: testPassword}},
		{"duplicate username", handlers.RegisterInput{Username: "taken", Email: "bob@example.com", Password: testPassword}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := e.request(http.MethodPost, "/api/v1/auth/register", "", tc.input)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.False(t, decode[any](t, rec).Success)
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := newEnv(t, nil)
	e.seedUser("alice")

	rec := e.request(http.MethodPost, "/api/v1/auth/login", "", handlers.LoginInput{Email: "alice@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.request(http.MethodPost, "/api/v1/auth/login", "", handlers.LoginInput{Email: "nobody@example.com", Password: testPassword})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	e := newEnv(t, nil)

	for _, path := range []string{"/api/v1/auth/me", "/api/v1/channels", "/api/v1/groups", "/api/v1/contacts"} {
		rec := e.request(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := e.request(http.MethodGet, "/api/v1/channels", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSecurityInfo(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")

	rec := e.request(http.MethodGet, "/api/v1/auth/security", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[handlers.SecurityInfo](t, rec).Data
	assert.Equal(t, 2, info.Connected)
	assert.Equal(t, 5, info.Total)
	assert.Equal(t, []string{"password", "email"}, info.Methods)
	assert.Equal(t, "medium", info.Level)
	assert.Equal(t, "Connect more login methods for better security", info.Recommendation)
}

func TestSecurityLevel(t *testing.T) {
	assert.Equal(t, "low", handlers.SecurityLevel(0))
	assert.Equal(t, "low", handlers.SecurityLevel(1))
	assert.Equal(t, "medium", handlers.SecurityLevel(2))
	assert.Equal(t, "high", handlers.SecurityLevel(3))
	assert.Equal(t, "high", handlers.SecurityLevel(5))
}
