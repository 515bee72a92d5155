package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/profile"
	"github.com/rohits-web03/humandns/internal/utils"
)

const defaultSearchLimit = 20

// SearchParams are the query parameters of a contact search.
type SearchParams struct {
	Query string `json:"q" validate:"min=2"`
	Limit int    `json:"limit" validate:"min=1,max=50"`
}

type ContactEntry struct {
	ContactID   uint              `json:"contact_id"`
	User        models.PublicUser `json:"user"`
	DisplayName string            `json:"display_name"`
	AddedAt     time.Time         `json:"added_at"`
}

type SearchResult struct {
	User        models.PublicUser `json:"user"`
	DisplayName string            `json:"display_name"`
	IsContact   bool              `json:"is_contact"`
}

// GET /api/v1/contacts
// ListContacts godoc
// @Summary List contacts
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=[]ContactEntry}
// @Router /api/v1/contacts [get]
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	contacts, err := h.store.ListContacts(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, "Failed to load contacts", err)
		return
	}
	entries := make([]ContactEntry, 0, len(contacts))
	for _, c := range contacts {
		entries = append(entries, ContactEntry{
			ContactID:   c.ID,
			User:        c.ContactUser.Public(),
			DisplayName: profile.DisplayName(c.ContactUser),
			AddedAt:     c.CreatedAt,
		})
	}
	utils.OK(w, http.StatusOK, "Contacts retrieved successfully", entries)
}

// GET /api/v1/contacts/search
// SearchContacts godoc
// @Summary Search users to add
// @Description Matches username, names and email. Excludes the caller.
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param q query string true "At least 2 characters"
// @Param limit query int false "1-50, default 20"
// @Success 200 {object} utils.Payload{data=[]SearchResult}
// @Failure 400 {object} utils.Payload "Query too short"
// @Router /api/v1/contacts/search [get]
func (h *Handler) SearchContacts(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	params := SearchParams{Query: strings.TrimSpace(r.URL.Query().Get("q")), Limit: defaultSearchLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.Fail(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		params.Limit = n
	}
	if !h.valid(w, params) {
		return
	}
	q, limit := params.Query, params.Limit

	ctx := r.Context()
	// One extra row covers the caller being filtered out.
	users, err := h.store.SearchUsers(ctx, q, limit+1)
	if err != nil {
		h.internalError(w, r, "Search failed", err)
		return
	}
	ids := make([]uint, 0, len(users))
	found := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID == user.ID || len(found) == limit {
			continue
		}
		found = append(found, u)
		ids = append(ids, u.ID)
	}
	contactSet, err := h.store.ContactSet(ctx, user.ID, ids)
	if err != nil {
		h.internalError(w, r, "Search failed", err)
		return
	}

	results := make([]SearchResult, 0, len(found))
	for i := range found {
		results = append(results, SearchResult{
			User:        found[i].Public(),
			DisplayName: profile.DisplayName(found[i]),
			IsContact:   contactSet[found[i].ID],
		})
	}
	utils.OK(w, http.StatusOK, "Search completed", results)
}

// POST /api/v1/contacts/{user_id}
// AddContact godoc
// @Summary Add a contact
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User id"
// @Success 201 {object} utils.Payload{data=ContactEntry}
// @Failure 400 {object} utils.Payload "Self or duplicate"
// @Failure 404 {object} utils.Payload "User not found"
// @Router /api/v1/contacts/{user_id} [post]
func (h *Handler) AddContact(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	targetID, ok := pathID(r, "user_id")
	if !ok {
		utils.Fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if targetID == user.ID {
		utils.Fail(w, http.StatusBadRequest, "Cannot add yourself as a contact")
		return
	}

	ctx := r.Context()
	target, err := h.store.GetUser(ctx, targetID)
	if isNotFound(err) {
		utils.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Database error", err)
		return
	}

	if _, err := h.store.ActiveContact(ctx, user.ID, targetID); err == nil {
		utils.Fail(w, http.StatusBadRequest, "Contact already exists")
		return
	} else if !isNotFound(err) {
		h.internalError(w, r, "Database error", err)
		return
	}

	contact := models.Contact{UserID: user.ID, ContactUserID: targetID, IsActive: true}
	if err := h.store.CreateContact(ctx, &contact); err != nil {
		h.internalError(w, r, "Failed to add contact", err)
		return
	}
	utils.OK(w, http.StatusCreated, "Contact added", ContactEntry{
		ContactID:   contact.ID,
		User:        target.Public(),
		DisplayName: profile.DisplayName(*target),
		AddedAt:     contact.CreatedAt,
	})
}

// DELETE /api/v1/contacts/{user_id}
// RemoveContact godoc
// @Summary Remove a contact
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User id"
// @Success 200 {object} utils.Payload "Contact removed"
// @Failure 404 {object} utils.Payload "Contact not found"
// @Router /api/v1/contacts/{user_id} [delete]
func (h *Handler) RemoveContact(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	targetID, ok := pathID(r, "user_id")
	if !ok {
		utils.Fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	err := h.store.DeactivateContact(r.Context(), user.ID, targetID)
	if isNotFound(err) {
		utils.Fail(w, http.StatusNotFound, "Contact not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to remove contact", err)
		return
	}
	utils.OK(w, http.StatusOK, "Contact removed", nil)
}
