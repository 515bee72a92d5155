package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rohits-web03/humandns/internal/api"
	"github.com/rohits-web03/humandns/internal/api/handlers"
	"github.com/rohits-web03/humandns/internal/api/services"
	"github.com/rohits-web03/humandns/internal/config"
	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/repositories"
	"github.com/rohits-web03/humandns/internal/testutil"
)

const testPassword = "correct-horse"

type fakeMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *fakeMailer) SendOTP(_ context.Context, email, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = code
	return nil
}

func (m *fakeMailer) code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type fakeAvatars struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeAvatars) Put(_ context.Context, key, _ string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = body
	return nil
}

func (f *fakeAvatars) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeAvatars) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (f *fakeAvatars) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://signed.example.com/" + key + "?sig=1", nil
}

func (f *fakeAvatars) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type env struct {
	t       *testing.T
	cfg     config.Config
	store   *repositories.Store
	tokens  *services.TokenManager
	cache   *repositories.MemoryCache
	mailer  *fakeMailer
	avatars *fakeAvatars
	srv     http.Handler
}

func newEnv(t *testing.T, providers services.OAuthProviders) *env {
	t.Helper()
	e := &env{
		t: t,
		cfg: config.Config{
			JWTSecret:   "test-secret",
			TokenTTL:    time.Hour,
			Environment: "test",
			APIBaseURL:  "http://api.test",
			FrontendURL: "http://app.test",
		},
		store:   testutil.NewStore(t),
		tokens:  services.NewTokenManager("test-secret", time.Hour),
		cache:   repositories.NewMemoryCache(),
		mailer:  &fakeMailer{codes: map[string]string{}},
		avatars: &fakeAvatars{objects: map[string][]byte{}},
	}
	h := handlers.New(handlers.Deps{
		Config:  e.cfg,
		Store:   e.store,
		Avatars: e.avatars,
		Cache:   e.cache,
		Tokens:  e.tokens,
		OAuth:   providers,
		Mailer:  e.mailer,
	})
	e.srv = api.SetupRouter(h, api.RouterDeps{
		Config: e.cfg,
		Store:  e.store,
		Tokens: e.tokens,
		Cache:  e.cache,
	})
	return e
}

// request sends a JSON request; token may be empty.
func (e *env) request(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

// seedUser creates a password account directly in the store and returns a token for it.
func (e *env) seedUser(username string) (*models.User, string) {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(e.t, err)
	u := &models.User{Username: username, Email: username + "@example.com", Password: string(hash)}
	require.NoError(e.t, e.store.CreateUser(context.Background(), u))
	tok, _, err := e.tokens.Generate(u.ID)
	require.NoError(e.t, err)
	return u, tok
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func ptr[T any](v T) *T { return &v }

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
