package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rohits-web03/humandns/internal/api/handlers"
)

func TestValidationMessages(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   string
	}{
		{"short username", http.MethodPost, "/api/v1/auth/register", "",
			handlers.RegisterInput{Username: "ab", Email: "ab@example.com", Password: testPassword},
			"username must be at least 3 characters"},
		{"username charset", http.MethodPost, "/api/v1/auth/register", "",
			handlers.RegisterInput{Username: "a b/c", Email: "abc@example.com", Password: testPassword},
			"Username may only contain letters, digits, '.', '_' or '-'"},
		{"email", http.MethodPost, "/api/v1/auth/register", "",
			handlers.RegisterInput{Username: "bob", Email: "not-an-email", Password: testPassword},
			"Invalid email address"},
		{"long password", http.MethodPost, "/api/v1/auth/register", "",
			handlers.RegisterInput{Username: "bob", Email: "bob@example.com", Password: strings.Repeat("p", 129)},
			"password must be at most 128 characters"},
		{"login fields", http.MethodPost, "/api/v1/auth/login", "",
			handlers.LoginInput{Email: "alice@example.com"},
			"password is required"},
		{"recovery method", http.MethodPost, "/api/v1/auth/verify", "",
			handlers.VerifyInput{Email: "alice@example.com", Method: "carrier-pigeon"},
			"method must be one of: email google github discord"},
		{"recovery code", http.MethodPost, "/api/v1/auth/verify", "",
			handlers.VerifyInput{Email: "alice@example.com", Method: "email"},
			"code is required"},
		{"recovery oauth token", http.MethodPost, "/api/v1/auth/verify", "",
			handlers.VerifyInput{Email: "alice@example.com", Method: "github"},
			"oauth_token is required"},
		{"channel type", http.MethodPost, "/api/v1/channels", tok,
			handlers.ChannelInput{Type: "pager", Value: "123"},
			"Unknown channel type"},
		{"blank channel value", http.MethodPost, "/api/v1/channels", tok,
			map[string]any{"type": "phone", "value": "  "},
			"value is required"},
		{"group name length", http.MethodPost, "/api/v1/groups", tok,
			handlers.GroupInput{Name: strings.Repeat("g", 101)},
			"name must be at most 100 characters"},
		{"bio length", http.MethodPut, "/api/v1/users/me", tok,
			map[string]any{"bio": strings.Repeat("x", 501)},
			"bio must be at most 500 characters"},
		{"search query", http.MethodGet, "/api/v1/contacts/search?q=%20b%20", tok, nil,
			"q must be at least 2 characters"},
		{"search limit", http.MethodGet, "/api/v1/contacts/search?q=bob&limit=51", tok, nil,
			"limit must be at most 50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.request(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			payload := decode[any](t, rec)
			assert.False(t, payload.Success)
			assert.Equal(t, tt.want, payload.Message)
		})
	}
}

func TestChannelUpdateValidation(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")
	ch := createChannel(t, e, tok, handlers.ChannelInput{Type: "phone", Value: "555"})
	path := "/api/v1/channels/" + itoa(ch.ID)

	rec := e.request(http.MethodPut, path, tok, map[string]any{"value": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "value must not be empty", decode[any](t, rec).Message)

	rec = e.request(http.MethodPut, path, tok, map[string]any{"type": "fax"})
	assert.Equal(t, "Unknown channel type", decode[any](t, rec).Message)

	rec = e.request(http.MethodPut, path, tok, map[string]any{"value": " 556 "})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "556", decode[map[string]any](t, rec).Data["value"])
}
