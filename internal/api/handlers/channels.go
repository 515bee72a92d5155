package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/utils"
)

// NullableID distinguishes an absent field from an explicit null.
type NullableID struct {
	Set   bool
	Value *uint
}

func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v uint
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type ChannelInput struct {
	Type      models.ChannelType `json:"type" validate:"channeltype"`
	Value     string             `json:"value" validate:"required,max=255"`
	Label     *string            `json:"label" validate:"omitempty,max=100"`
	IsPublic  *bool              `json:"is_public"`
	IsPrimary bool               `json:"is_primary"`
	SortOrder int                `json:"sort_order"`
	GroupID   *uint              `json:"group_id"`
}

type ChannelUpdate struct {
	Type      *models.ChannelType `json:"type" validate:"omitempty,channeltype"`
	Value     *string             `json:"value" validate:"omitempty,min=1,max=255"`
	Label     *string             `json:"label" validate:"omitempty,max=100"`
	IsPublic  *bool               `json:"is_public"`
	IsPrimary *bool               `json:"is_primary"`
	SortOrder *int                `json:"sort_order"`
	GroupID   NullableID          `json:"group_id" swaggertype:"integer"`
}

// ownsGroup reports whether groupID is nil or one of userID's groups. It
// writes the error response when it returns false.
func (h *Handler) ownsGroup(w http.ResponseWriter, r *http.Request, userID uint, groupID *uint) bool {
	if groupID == nil {
		return true
	}
	_, err := h.store.GetGroup(r.Context(), userID, *groupID)
	if isNotFound(err) {
		utils.Fail(w, http.StatusBadRequest, "Group not found")
		return false
	}
	if err != nil {
		h.internalError(w, r, "Database error", err)
		return false
	}
	return true
}

// GET /api/v1/channels
// ListChannels godoc
// @Summary List own channels
// @Tags Channels
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=[]models.Channel}
// @Router /api/v1/channels [get]
func (h *Handler) ListChannels(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	channels, err := h.store.ListChannels(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, "Failed to load channels", err)
		return
	}
	utils.OK(w, http.StatusOK, "Channels retrieved successfully", channels)
}

// POST /api/v1/channels
// CreateChannel godoc
// @Summary Add a channel
// @Description is_public defaults to true.
// @Tags Channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body ChannelInput true "Channel"
// @Success 201 {object} utils.Payload{data=models.Channel}
// @Failure 400 {object} utils.Payload "Invalid input"
// @Router /api/v1/channels [post]
func (h *Handler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	var input ChannelInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Value = strings.TrimSpace(input.Value)
	trimPtr(input.Label)
	if !h.valid(w, input) {
		return
	}
	if !h.ownsGroup(w, r, user.ID, input.GroupID) {
		return
	}

	ch := models.Channel{
		UserID:    user.ID,
		GroupID:   input.GroupID,
		Type:      input.Type,
		Value:     input.Value,
		IsPublic:  input.IsPublic == nil || *input.IsPublic,
		IsPrimary: input.IsPrimary,
		SortOrder: input.SortOrder,
	}
	if input.Label != nil {
		ch.Label = optional(*input.Label)
	}
	if err := h.store.CreateChannel(r.Context(), &ch); err != nil {
		h.internalError(w, r, "Failed to create channel", err)
		return
	}
	h.invalidateProfile(r.Context(), user.Username)
	utils.OK(w, http.StatusCreated, "Channel created successfully", ch)
}

// loadChannel fetches the caller's channel named by the {id} path value.
func (h *Handler) loadChannel(w http.ResponseWriter, r *http.Request) (*models.User, *models.Channel) {
	user := h.currentUser(w, r)
	if user == nil {
		return nil, nil
	}
	id, ok := pathID(r, "id")
	if !ok {
		utils.Fail(w, http.StatusBadRequest, "Invalid channel id")
		return nil, nil
	}
	ch, err := h.store.GetChannel(r.Context(), user.ID, id)
	if isNotFound(err) {
		utils.Fail(w, http.StatusNotFound, "Channel not found")
		return nil, nil
	}
	if err != nil {
		h.internalError(w, r, "Database error", err)
		return nil, nil
	}
	return user, ch
}

// GET /api/v1/channels/{id}
// GetChannel godoc
// @Summary Get an own channel
// @Tags Channels
// @Produce json
// @Security BearerAuth
// @Param id path int true "Channel id"
// @Success 200 {object} utils.Payload{data=models.Channel}
// @Failure 404 {object} utils.Payload "Channel not found"
// @Router /api/v1/channels/{id} [get]
func (h *Handler) GetChannel(w http.ResponseWriter, r *http.Request) {
	_, ch := h.loadChannel(w, r)
	if ch == nil {
		return
	}
	utils.OK(w, http.StatusOK, "Channel retrieved successfully", ch)
}

// PUT /api/v1/channels/{id}
// UpdateChannel godoc
// @Summary Update an own channel
// @Description Absent fields are kept; "group_id": null ungroups the channel.
// @Tags Channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Channel id"
// @Param input body ChannelUpdate true "Fields to change"
// @Success 200 {object} utils.Payload{data=models.Channel}
// @Failure 400 {object} utils.Payload "Invalid input"
// @Failure 404 {object} utils.Payload "Channel not found"
// @Router /api/v1/channels/{id} [put]
func (h *Handler) UpdateChannel(w http.ResponseWriter, r *http.Request) {
	user, ch := h.loadChannel(w, r)
	if ch == nil {
		return
	}
	var input ChannelUpdate
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	trimPtr(input.Value)
	trimPtr(input.Label)
	if !h.valid(w, input) {
		return
	}

	if input.Type != nil {
		ch.Type = *input.Type
	}
	if input.Value != nil {
		ch.Value = *input.Value
	}
	if input.Label != nil {
		ch.Label = optional(*input.Label)
	}
	if input.IsPublic != nil {
		ch.IsPublic = *input.IsPublic
	}
	if input.IsPrimary != nil {
		ch.IsPrimary = *input.IsPrimary
	}
	if input.SortOrder != nil {
		ch.SortOrder = *input.SortOrder
	}
	if input.GroupID.Set {
		if !h.ownsGroup(w, r, user.ID, input.GroupID.Value) {
			return
		}
		ch.GroupID = input.GroupID.Value
	}

	if err := h.store.SaveChannel(r.Context(), ch); err != nil {
		h.internalError(w, r, "Failed to update channel", err)
		return
	}
	h.invalidateProfile(r.Context(), user.Username)
	utils.OK(w, http.StatusOK, "Channel updated successfully", ch)
}

// DELETE /api/v1/channels/{id}
// DeleteChannel godoc
// @Summary Delete an own channel
// @Tags Channels
// @Produce json
// @Security BearerAuth
// @Param id path int true "Channel id"
// @Success 200 {object} utils.Payload "Channel deleted"
// @Failure 404 {object} utils.Payload "Channel not found"
// @Router /api/v1/channels/{id} [delete]
func (h *Handler) DeleteChannel(w http.ResponseWriter, r *http.Request) {
	user, ch := h.loadChannel(w, r)
	if ch == nil {
		return
	}
	if err := h.store.DeleteChannel(r.Context(), ch); err != nil {
		h.internalError(w, r, "Failed to delete channel", err)
		return
	}
	h.invalidateProfile(r.Context(), user.Username)
	utils.OK(w, http.StatusOK, "Channel deleted", nil)
}
