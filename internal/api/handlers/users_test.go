package handlers_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohits-web03/humandns/internal/api/handlers"
	"github.com/rohits-web03/humandns/internal/models"
)

func (e *env) upload(token, filename string, content []byte) *httptest.ResponseRecorder {
	e.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(e.t, err)
	_, err = fw.Write(content)
	require.NoError(e.t, err)
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/me/avatar", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")

	rec := e.request(http.MethodPut, "/api/v1/users/me", tok, handlers.ProfileUpdate{
		DisplayName: ptr("  Ali  "), Bio: ptr("Hello"),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	u := decode[models.User](t, rec).Data
	require.NotNil(t, u.DisplayName)
	assert.Equal(t, "Ali", *u.DisplayName)
	assert.Equal(t, "alice", u.Username)

	// blank clears, absent keeps
	rec = e.request(http.MethodPut, "/api/v1/users/me", tok, map[string]any{"display_name": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	u = decode[models.User](t, rec).Data
	assert.Nil(t, u.DisplayName)
	require.NotNil(t, u.Bio)
	assert.Equal(t, "Hello", *u.Bio)

	rec = e.request(http.MethodPut, "/api/v1/users/me", tok, map[string]any{"username": "mallory"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "username is immutable")

	rec = e.request(http.MethodPut, "/api/v1/users/me", tok, map[string]any{"bio": strings.Repeat("x", 501)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvatarUploadAndDelete(t *testing.T) {
	e := newEnv(t, nil)
	alice, tok := e.seedUser("alice")

	rec := e.upload(tok, "notes.png", []byte("definitely not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.upload(tok, "me.png", pngBytes(t, 900, 900))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	u := decode[models.User](t, rec).Data
	require.NotNil(t, u.AvatarURL)
	assert.True(t, strings.HasPrefix(*u.AvatarURL, "https://cdn.example.com/avatars/"))
	assert.True(t, strings.HasSuffix(*u.AvatarURL, ".png"))
	assert.Equal(t, 1, e.avatars.count())

	// a second upload replaces the first object
	rec = e.upload(tok, "me2.png", pngBytes(t, 50, 50))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, e.avatars.count())

	rec = e.request(http.MethodGet, "/api/v1/public/alice/avatar", "", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "https://signed.example.com/avatars/")

	rec = e.request(http.MethodDelete, "/api/v1/users/me/avatar", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, e.avatars.count())
	stored, err := e.store.GetUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AvatarURL)
	assert.Empty(t, stored.AvatarKey)

	rec = e.request(http.MethodDelete, "/api/v1/users/me/avatar", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAccount(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")
	bob, bobTok := e.seedUser("bob")
	createChannel(t, e, tok, handlers.ChannelInput{Type: models.ChannelPhone, Value: "1"})
	rec := e.request(http.MethodPost, "/api/v1/contacts/"+itoa(bob.ID), tok, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, http.StatusOK, e.upload(tok, "me.png", pngBytes(t, 10, 10)).Code)

	rec = e.request(http.MethodDelete, "/api/v1/users/me", tok, handlers.DeleteAccountInput{Confirm: "delete my account"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.request(http.MethodDelete, "/api/v1/users/me", tok, handlers.DeleteAccountInput{Confirm: handlers.DeleteConfirmation})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, e.request(http.MethodGet, "/api/v1/public/alice", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, e.request(http.MethodGet, "/api/v1/auth/me", tok, nil).Code)
	assert.Equal(t, 0, e.avatars.count())

	rec = e.request(http.MethodGet, "/api/v1/contacts", bobTok, nil)
	assert.Empty(t, decode[[]handlers.ContactEntry](t, rec).Data)
}
