package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohits-web03/humandns/internal/api/handlers"
)

func TestRecoveryWithEmailCode(t *testing.T) {
	e := newEnv(t, nil)
	alice, _ := e.seedUser("alice")

	rec := e.request(http.MethodPost, "/api/v1/auth/recover", "", handlers.RecoveryInput{Email: "alice@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	started := decode[handlers.RecoveryResponse](t, rec).Data
	assert.Equal(t, []string{"password", "email"}, started.AvailableMethods)
	assert.Empty(t, started.Warning)
	assert.NotContains(t, rec.Body.String(), "recovery_token")

	code := e.mailer.code("alice@example.com")
	require.Len(t, code, 6)

	rec = e.request(http.MethodPost, "/api/v1/auth/verify", "", handlers.VerifyInput{Email: "alice@example.com", Method: "email", Code: "000000x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.request(http.MethodPost, "/api/v1/auth/verify", "", handlers.VerifyInput{Email: "alice@example.com", Method: "email", Code: code})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tok := decode[handlers.TokenResponse](t, rec).Data.AccessToken
	require.NotEmpty(t, tok)

	rec = e.request(http.MethodGet, "/api/v1/auth/me", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := e.store.GetUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.OTPCode)
	assert.Nil(t, stored.RecoveryToken)

	// a used code cannot be replayed
	rec = e.request(http.MethodPost, "/api/v1/auth/verify", "", handlers.VerifyInput{Email: "alice@example.com", Method: "email", Code: code})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecoveryCodeExpires(t *testing.T) {
	e := newEnv(t, nil)
	alice, _ := e.seedUser("alice")

	rec := e.request(http.MethodPost, "/api/v1/auth/otp", "", handlers.RecoveryInput{Email: "alice@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 600, decode[handlers.OTPResponse](t, rec).Data.ExpiresIn)

	ctx := context.Background()
	stored, err := e.store.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	past := time.Now().Add(-time.Minute)
	stored.OTPExpiresAt = &past
	require.NoError(t, e.store.SaveUser(ctx, stored))

	rec = e.request(http.MethodPost, "/api/v1/auth/verify", "", handlers.VerifyInput{
		Email: "alice@example.com", Method: "email", Code: e.mailer.code("alice@example.com"),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Code has expired", decode[any](t, rec).Message)
}

func TestRecoveryRejectsUnknownAndUnlinked(t *testing.T) {
	e := newEnv(t, nil)
	e.seedUser("alice")

	rec := e.request(http.MethodPost, "/api/v1/auth/recover", "", handlers.RecoveryInput{Email: "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.request(http.MethodPost, "/api/v1/auth/verify", "", handlers.VerifyInput{Email: "alice@example.com", Method: "github", OAuthToken: "tok"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.request(http.MethodPost, "/api/v1/auth/verify", "", handlers.VerifyInput{Email: "alice@example.com", Method: "carrier-pigeon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
