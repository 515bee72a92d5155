package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohits-web03/humandns/internal/api/handlers"
	"github.com/rohits-web03/humandns/internal/models"
)

func createGroup(t *testing.T, e *env, tok, name string) models.Group {
	t.Helper()
	rec := e.request(http.MethodPost, "/api/v1/groups", tok, handlers.GroupInput{Name: name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Group](t, rec).Data
}

func createChannel(t *testing.T, e *env, tok string, in handlers.ChannelInput) models.Channel {
	t.Helper()
	rec := e.request(http.MethodPost, "/api/v1/channels", tok, in)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Channel](t, rec).Data
}

func TestChannelCRUD(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")

	ch := createChannel(t, e, tok, handlers.ChannelInput{Type: models.ChannelWebsite, Value: "  alice.dev  ", Label: ptr("Blog")})
	assert.Equal(t, "alice.dev", ch.Value)
	assert.True(t, ch.IsPublic)
	require.NotNil(t, ch.Label)
	assert.Equal(t, "Blog", *ch.Label)

	path := fmt.Sprintf("/api/v1/channels/%d", ch.ID)
	rec := e.request(http.MethodPut, path, tok, map[string]any{"is_public": false, "sort_order": 4})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Channel](t, rec).Data
	assert.False(t, updated.IsPublic)
	assert.Equal(t, 4, updated.SortOrder)
	assert.Equal(t, "alice.dev", updated.Value)

	rec = e.request(http.MethodGet, path, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.Channel](t, rec).Data.IsPublic)

	rec = e.request(http.MethodGet, "/api/v1/channels", tok, nil)
	assert.Len(t, decode[[]models.Channel](t, rec).Data, 1)

	rec = e.request(http.MethodDelete, path, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.request(http.MethodGet, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChannelValidation(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")

	rec := e.request(http.MethodPost, "/api/v1/channels", tok, handlers.ChannelInput{Type: "pager", Value: "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.request(http.MethodPost, "/api/v1/channels", tok, handlers.ChannelInput{Type: models.ChannelPhone, Value: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.request(http.MethodPost, "/api/v1/channels", tok, map[string]any{"type": "phone", "value": "1", "colour": "red"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.request(http.MethodGet, "/api/v1/channels/abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChannelsAreOwnerOnly(t *testing.T) {
	e := newEnv(t, nil)
	_, aliceTok := e.seedUser("alice")
	_, bobTok := e.seedUser("bob")

	ch := createChannel(t, e, aliceTok, handlers.ChannelInput{Type: models.ChannelEmail, Value: "a@example.com"})
	path := fmt.Sprintf("/api/v1/channels/%d", ch.ID)

	assert.Equal(t, http.StatusNotFound, e.request(http.MethodGet, path, bobTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.request(http.MethodPut, path, bobTok, map[string]any{"value": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, e.request(http.MethodDelete, path, bobTok, nil).Code)

	// A channel cannot be placed in someone else's group.
	bobGroup := createGroup(t, e, bobTok, "Work")
	rec := e.request(http.MethodPost, "/api/v1/channels", aliceTok, handlers.ChannelInput{Type: models.ChannelPhone, Value: "1", GroupID: &bobGroup.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = e.request(http.MethodPut, path, aliceTok, map[string]any{"group_id": bobGroup.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChannelGroupAssignment(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")
	g := createGroup(t, e, tok, "Work")

	ch := createChannel(t, e, tok, handlers.ChannelInput{Type: models.ChannelPhone, Value: "1", GroupID: &g.ID})
	require.NotNil(t, ch.GroupID)
	path := fmt.Sprintf("/api/v1/channels/%d", ch.ID)

	// absent group_id keeps the group
	rec := e.request(http.MethodPut, path, tok, map[string]any{"label": "Desk"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decode[models.Channel](t, rec).Data.GroupID)

	// explicit null ungroups
	rec = e.request(http.MethodPut, path, tok, map[string]any{"group_id": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[models.Channel](t, rec).Data.GroupID)
}

func TestGroupCRUDAndOrphaning(t *testing.T) {
	e := newEnv(t, nil)
	_, tok := e.seedUser("alice")
	_, bobTok := e.seedUser("bob")

	g := createGroup(t, e, tok, "Work")
	createGroup(t, e, bobTok, "Work") // names are unique per user only

	rec := e.request(http.MethodPost, "/api/v1/groups", tok, handlers.GroupInput{Name: " Work "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = e.request(http.MethodPost, "/api/v1/groups", tok, handlers.GroupInput{Name: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	other := createGroup(t, e, tok, "Social")
	rec = e.request(http.MethodPut, fmt.Sprintf("/api/v1/groups/%d", other.ID), tok, map[string]any{"name": "Work"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = e.request(http.MethodPut, fmt.Sprintf("/api/v1/groups/%d", g.ID), tok, map[string]any{"name": "Work", "sort_order": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[models.Group](t, rec).Data.SortOrder)

	ch := createChannel(t, e, tok, handlers.ChannelInput{Type: models.ChannelPhone, Value: "1", GroupID: &g.ID})

	assert.Equal(t, http.StatusNotFound, e.request(http.MethodDelete, fmt.Sprintf("/api/v1/groups/%d", g.ID), bobTok, nil).Code)
	rec = e.request(http.MethodDelete, fmt.Sprintf("/api/v1/groups/%d", g.ID), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.request(http.MethodGet, fmt.Sprintf("/api/v1/channels/%d", ch.ID), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[models.Channel](t, rec).Data.GroupID)

	rec = e.request(http.MethodGet, "/api/v1/groups", tok, nil)
	groups := decode[[]models.Group](t, rec).Data
	require.Len(t, groups, 1)
	assert.Equal(t, "Social", groups[0].Name)
}
