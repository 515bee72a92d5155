package handlers

import (
	"net/http"
	"strings"

	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/utils"
)

type GroupInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	SortOrder   int     `json:"sort_order"`
}

type GroupUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order"`
}

// nameAvailable checks the per-user unique group name, ignoring exceptID.
// It writes the error response when it returns false.
func (h *Handler) nameAvailable(w http.ResponseWriter, r *http.Request, userID uint, name string, exceptID uint) bool {
	existing, err := h.store.GetGroupByName(r.Context(), userID, name)
	switch {
	case isNotFound(err):
		return true
	case err != nil:
		h.internalError(w, r, "Database error", err)
		return false
	case existing.ID == exceptID:
		return true
	}
	utils.Fail(w, http.StatusBadRequest, "Group with this name already exists")
	return false
}

// GET /api/v1/groups
// ListGroups godoc
// @Summary List own groups
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=[]models.Group}
// @Router /api/v1/groups [get]
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	groups, err := h.store.ListGroups(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, "Failed to load groups", err)
		return
	}
	utils.OK(w, http.StatusOK, "Groups retrieved successfully", groups)
}

// POST /api/v1/groups
// CreateGroup godoc
// @Summary Create a group
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body GroupInput true "Group"
// @Success 201 {object} utils.Payload{data=models.Group}
// @Failure 400 {object} utils.Payload "Invalid input or duplicate name"
// @Router /api/v1/groups [post]
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	var input GroupInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Name = strings.TrimSpace(input.Name)
	trimPtr(input.Description)
	if !h.valid(w, input) {
		return
	}
	name := input.Name
	if !h.nameAvailable(w, r, user.ID, name, 0) {
		return
	}

	group := models.Group{UserID: user.ID, Name: name, SortOrder: input.SortOrder}
	if input.Description != nil {
		group.Description = optional(*input.Description)
	}
	if err := h.store.CreateGroup(r.Context(), &group); err != nil {
		h.internalError(w, r, "Failed to create group", err)
		return
	}
	h.invalidateProfile(r.Context(), user.Username)
	utils.OK(w, http.StatusCreated, "Group created successfully", group)
}

func (h *Handler) loadGroup(w http.ResponseWriter, r *http.Request) (*models.User, *models.Group) {
	user := h.currentUser(w, r)
	if user == nil {
		return nil, nil
	}
	id, ok := pathID(r, "id")
	if !ok {
		utils.Fail(w, http.StatusBadRequest, "Invalid group id")
		return nil, nil
	}
	group, err := h.store.GetGroup(r.Context(), user.ID, id)
	if isNotFound(err) {
		utils.Fail(w, http.StatusNotFound, "Group not found")
		return nil, nil
	}
	if err != nil {
		h.internalError(w, r, "Database error", err)
		return nil, nil
	}
	return user, group
}

// GET /api/v1/groups/{id}
// GetGroup godoc
// @Summary Get an own group
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group id"
// @Success 200 {object} utils.Payload{data=models.Group}
// @Failure 404 {object} utils.Payload "Group not found"
// @Router /api/v1/groups/{id} [get]
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	_, group := h.loadGroup(w, r)
	if group == nil {
		return
	}
	utils.OK(w, http.StatusOK, "Group retrieved successfully", group)
}

// PUT /api/v1/groups/{id}
// UpdateGroup godoc
// @Summary Update an own group
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group id"
// @Param input body GroupUpdate true "Fields to change"
// @Success 200 {object} utils.Payload{data=models.Group}
// @Failure 400 {object} utils.Payload "Invalid input or duplicate name"
// @Failure 404 {object} utils.Payload "Group not found"
// @Router /api/v1/groups/{id} [put]
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	user, group := h.loadGroup(w, r)
	if group == nil {
		return
	}
	var input GroupUpdate
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	trimPtr(input.Name)
	trimPtr(input.Description)
	if !h.valid(w, input) {
		return
	}
	if input.Name != nil {
		if !h.nameAvailable(w, r, user.ID, *input.Name, group.ID) {
			return
		}
		group.Name = *input.Name
	}
	if input.Description != nil {
		group.Description = optional(*input.Description)
	}
	if input.SortOrder != nil {
		group.SortOrder = *input.SortOrder
	}

	if err := h.store.SaveGroup(r.Context(), group); err != nil {
		h.internalError(w, r, "Failed to update group", err)
		return
	}
	h.invalidateProfile(r.Context(), user.Username)
	utils.OK(w, http.StatusOK, "Group updated successfully", group)
}

// DELETE /api/v1/groups/{id}
// DeleteGroup godoc
// @Summary Delete an own group
// @Description Channels in the group become ungrouped.
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group id"
// @Success 200 {object} utils.Payload "Group deleted"
// @Failure 404 {object} utils.Payload "Group not found"
// @Router /api/v1/groups/{id} [delete]
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	user, group := h.loadGroup(w, r)
	if group == nil {
		return
	}
	if err := h.store.DeleteGroup(r.Context(), group); err != nil {
		h.internalError(w, r, "Failed to delete group", err)
		return
	}
	h.invalidateProfile(r.Context(), user.Username)
	utils.OK(w, http.StatusOK, "Group deleted", nil)
}
