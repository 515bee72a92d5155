package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rohits-web03/humandns/internal/media"
	"github.com/rohits-web03/humandns/internal/utils"
	"go.uber.org/zap"
)

// DeleteConfirmation must be sent verbatim to delete an account.
const DeleteConfirmation = "DELETE MY ACCOUNT"

type ProfileUpdate struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=120"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
}

type DeleteAccountInput struct {
	Confirm string `json:"confirm"`
}

// applyText sets a nullable column from an optional input: absent keeps the
// value, blank clears it.
func applyText(dst **string, src *string) {
	if src != nil {
		*dst = optional(*src)
	}
}

// PUT /api/v1/users/me
// UpdateProfile godoc
// @Summary Update profile fields
// @Description Absent fields are kept; empty strings clear them. Username cannot change.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body ProfileUpdate true "Profile fields"
// @Success 200 {object} utils.Payload{data=models.User}
// @Failure 400 {object} utils.Payload "Invalid input"
// @Router /api/v1/users/me [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	var input ProfileUpdate
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	for _, p := range []*string{input.FirstName, input.LastName, input.DisplayName, input.Bio} {
		trimPtr(p)
	}
	if !h.valid(w, input) {
		return
	}
	applyText(&user.FirstName, input.FirstName)
	applyText(&user.LastName, input.LastName)
	applyText(&user.DisplayName, input.DisplayName)
	applyText(&user.Bio, input.Bio)

	if err := h.store.SaveUser(r.Context(), user); err != nil {
		h.internalError(w, r, "Failed to update profile", err)
		return
	}
	h.invalidateProfile(r.Context(), user.Username)
	utils.OK(w, http.StatusOK, "Profile updated successfully", user)
}

// DELETE /api/v1/users/me
// DeleteAccount godoc
// @Summary Delete the account
// @Description Permanently removes the user with channels, groups, contacts and avatar.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body DeleteAccountInput true "Confirmation text"
// @Success 200 {object} utils.Payload "Account deleted"
// @Failure 400 {object} utils.Payload "Missing confirmation"
// @Router /api/v1/users/me [delete]
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	var input DeleteAccountInput
	if err := utils.DecodeJSON(w, r, &input); err != nil || input.Confirm != DeleteConfirmation {
		utils.Fail(w, http.StatusBadRequest, fmt.Sprintf("Type %q to confirm", DeleteConfirmation))
		return
	}

	ctx := r.Context()
	if err := h.store.DeleteUser(ctx, user.ID); err != nil {
		h.internalError(w, r, "Failed to delete account", err)
		return
	}
	if user.AvatarKey != "" && h.avatars != nil {
		if err := h.avatars.Delete(ctx, user.AvatarKey); err != nil {
			h.log.Warn("avatar cleanup failed", zap.String("key", user.AvatarKey), zap.Error(err))
		}
	}
	h.invalidateProfile(ctx, user.Username)
	if err := h.revokeCurrentToken(r); err != nil {
		h.log.Warn("token revocation failed", zap.Error(err))
	}
	h.setTokenCookie(w, "", -1)

	h.log.Info("account deleted", zap.Uint("user_id", user.ID))
	utils.OK(w, http.StatusOK, "Account deleted", nil)
}

// POST /api/v1/users/me/avatar
// UploadAvatar godoc
// @Summary Upload an avatar
// @Description Multipart field "file": JPEG, PNG or WebP up to 5 MB and 2048x2048, resized to fit 400x400.
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 200 {object} utils.Payload{data=models.User}
// @Failure 400 {object} utils.Payload "Invalid image"
// @Failure 413 {object} utils.Payload "File too large"
// @Router /api/v1/users/me/avatar [post]
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.avatars == nil {
		utils.Fail(w, http.StatusServiceUnavailable, "Avatar storage is not configured")
		return
	}
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxAvatarBytes+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			utils.Fail(w, http.StatusRequestEntityTooLarge, media.ErrTooLarge.Error())
			return
		}
		utils.Fail(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()
	if header.Size > media.MaxAvatarBytes {
		utils.Fail(w, http.StatusRequestEntityTooLarge, media.ErrTooLarge.Error())
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, media.MaxAvatarBytes+1))
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Failed to read file")
		return
	}
	avatar, err := media.ProcessAvatar(data)
	switch {
	case errors.Is(err, media.ErrTooLarge):
		utils.Fail(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	case errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrDimensions), errors.Is(err, media.ErrCorrupt):
		utils.Fail(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.internalError(w, r, "Failed to process image", err)
		return
	}

	ctx := r.Context()
	key := fmt.Sprintf("avatars/%d/%s.%s", user.ID, uuid.New().String(), avatar.Ext)
	if err := h.avatars.Put(ctx, key, avatar.ContentType, avatar.Data); err != nil {
		h.internalError(w, r, "Failed to store avatar", err)
		return
	}

	oldKey := user.AvatarKey
	url := h.avatars.PublicURL(key)
	if url == "" {
		url = fmt.Sprintf("%s/api/v1/public/%s/avatar", h.cfg.APIBaseURL, user.Username)
	}
	user.AvatarKey = key
	user.AvatarURL = &url
	if err := h.store.SaveUser(ctx, user); err != nil {
		_ = h.avatars.Delete(ctx, key)
		h.internalError(w, r, "Failed to update profile", err)
		return
	}
	if oldKey != "" {
		if err := h.avatars.Delete(ctx, oldKey); err != nil {
			h.log.Warn("old avatar cleanup failed", zap.String("key", oldKey), zap.Error(err))
		}
	}

	h.invalidateProfile(ctx, user.Username)
	utils.OK(w, http.StatusOK, "Avatar uploaded successfully", user)
}

// DELETE /api/v1/users/me/avatar
// DeleteAvatar godoc
// @Summary Remove the avatar
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=models.User}
// @Failure 404 {object} utils.Payload "No avatar"
// @Router /api/v1/users/me/avatar [delete]
func (h *Handler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	if user.AvatarKey == "" && user.AvatarURL == nil {
		utils.Fail(w, http.StatusNotFound, "No avatar to delete")
		return
	}

	ctx := r.Context()
	if user.AvatarKey != "" && h.avatars != nil {
		if err := h.avatars.Delete(ctx, user.AvatarKey); err != nil {
			h.internalError(w, r, "Failed to delete avatar", err)
			return
		}
	}
	user.AvatarKey = ""
	user.AvatarURL = nil
	if err := h.store.SaveUser(ctx, user); err != nil {
		h.internalError(w, r, "Failed to update profile", err)
		return
	}
	h.invalidateProfile(ctx, user.Username)
	utils.OK(w, http.StatusOK, "Avatar deleted", user)
}

