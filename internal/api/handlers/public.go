package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rohits-web03/humandns/internal/api/middleware"
	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/profile"
	"github.com/rohits-web03/humandns/internal/utils"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	profileCacheTTL = 5 * time.Minute
	avatarURLTTL    = 15 * time.Minute
	defaultQRSize   = 256
	minQRSize       = 128
	maxQRSize       = 1024
)

// PublicProfile is what anyone can see at /{username}.
type PublicProfile struct {
	User     models.PublicUser `json:"user"`
	Channels []models.Channel  `json:"channels"`
	Groups   []models.Group    `json:"groups"`
}

// loadPublicProfile returns the cached profile or loads it from the store.
// A nil profile with a nil error means the user does not exist.
func (h *Handler) loadPublicProfile(ctx context.Context, username string) (*PublicProfile, error) {
	key := profileCacheKey(username)
	if raw, ok, err := h.cache.Get(ctx, key); err != nil {
		h.log.Warn("profile cache read failed", zap.String("username", username), zap.Error(err))
	} else if ok {
		var cached PublicProfile
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := h.store.GetUserByUsername(ctx, username)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p := &PublicProfile{User: user.Public()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		channels, err := h.store.ListPublicChannels(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("load channels: %w", err)
		}
		p.Channels = channels
		return nil
	})
	g.Go(func() error {
		groups, err := h.store.ListGroups(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("load groups: %w", err)
		}
		p.Groups = groups
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if p.Channels == nil {
		p.Channels = []models.Channel{}
	}
	if p.Groups == nil {
		p.Groups = []models.Group{}
	}

	if raw, err := json.Marshal(p); err == nil {
		if err := h.cache.Set(ctx, key, raw, profileCacheTTL); err != nil {
			h.log.Warn("profile cache write failed", zap.String("username", username), zap.Error(err))
		}
	}
	return p, nil
}

// publicProfile loads the profile named by the {username} path value. It
// writes the error response and returns nil on failure.
func (h *Handler) publicProfile(w http.ResponseWriter, r *http.Request) *PublicProfile {
	username := r.PathValue("username")
	if username == "" {
		utils.Fail(w, http.StatusBadRequest, "Missing username")
		return nil
	}
	p, err := h.loadPublicProfile(r.Context(), username)
	if err != nil {
		h.internalError(w, r, "Failed to load profile", err)
		return nil
	}
	if p == nil {
		utils.Fail(w, http.StatusNotFound, "User not found")
		return nil
	}
	return p
}

// viewerID returns the id of an authenticated viewer, if the request carries
// a valid token. Public routes never reject a bad token.
func (h *Handler) viewerID(r *http.Request) (uint, bool) {
	tok := middleware.ExtractToken(r)
	if tok == "" {
		return 0, false
	}
	id, _, err := h.tokens.Verify(tok)
	if err != nil {
		return 0, false
	}
	if revoked, err := h.cache.Exists(r.Context(), middleware.RevokedKey(tok)); err != nil || revoked {
		return 0, false
	}
	return id, true
}

// GET /api/v1/public/{username}
// GetPublicProfile godoc
// @Summary Public profile
// @Description User without email, public channels ordered by sort order and id, and groups.
// @Tags Public
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} utils.Payload{data=PublicProfile}
// @Failure 404 {object} utils.Payload "User not found"
// @Router /api/v1/public/{username} [get]
func (h *Handler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	p := h.publicProfile(w, r)
	if p == nil {
		return
	}
	utils.OK(w, http.StatusOK, "Profile retrieved successfully", p)
}

// profileView assembles the view for the request's viewer. The owner gets
// private channels too.
func (h *Handler) profileView(w http.ResponseWriter, r *http.Request) (*profile.View, bool) {
	p := h.publicProfile(w, r)
	if p == nil {
		return nil, false
	}
	channels := p.Channels
	isOwner := false
	if id, ok := h.viewerID(r); ok && id == p.User.ID {
		all, err := h.store.ListChannels(r.Context(), id)
		if err != nil {
			h.internalError(w, r, "Failed to load profile", err)
			return nil, false
		}
		channels, isOwner = all, true
	}
	v := profile.Assemble(p.User.User(), channels, p.Groups, isOwner)
	return &v, true
}

// GET /api/v1/public/{username}/view
// GetProfileView godoc
// @Summary Render-ready profile
// @Description Display name, sections of channels with resolved links, and the empty state flag.
// @Tags Public
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} utils.Payload{data=profile.View}
// @Failure 404 {object} utils.Payload "User not found"
// @Router /api/v1/public/{username}/view [get]
func (h *Handler) GetProfileView(w http.ResponseWriter, r *http.Request) {
	v, ok := h.profileView(w, r)
	if !ok {
		return
	}
	utils.OK(w, http.StatusOK, "Profile retrieved successfully", v)
}

// GET /api/v1/public/{username}/vcard
// GetVCard godoc
// @Summary Download a vCard
// @Tags Public
// @Produce text/vcard
// @Param username path string true "Username"
// @Success 200 {string} string "vCard 3.0"
// @Failure 404 {object} utils.Payload "User not found"
// @Router /api/v1/public/{username}/vcard [get]
func (h *Handler) GetVCard(w http.ResponseWriter, r *http.Request) {
	p := h.publicProfile(w, r)
	if p == nil {
		return
	}
	card := profile.VCard(profile.Assemble(p.User.User(), p.Channels, p.Groups, false))

	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.vcf"`, p.User.Username))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(card))
}

// GET /api/v1/public/{username}/qr
// GetQR godoc
// @Summary QR code of the profile URL
// @Tags Public
// @Produce png
// @Param username path string true "Username"
// @Param size query int false "Pixels, 128-1024, default 256"
// @Success 200 {file} binary "PNG image"
// @Failure 404 {object} utils.Payload "User not found"
// @Router /api/v1/public/{username}/qr [get]
func (h *Handler) GetQR(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			utils.Fail(w, http.StatusBadRequest, "Size must be between 128 and 1024")
			return
		}
		size = n
	}
	p := h.publicProfile(w, r)
	if p == nil {
		return
	}

	png, err := qrcode.Encode(ProfileURL(h.cfg.FrontendURL, p.User.Username), qrcode.Medium, size)
	if err != nil {
		h.internalError(w, r, "Failed to render QR code", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// ProfileURL is the permanent address of a user's profile page.
func ProfileURL(frontendURL, username string) string {
	return frontendURL + "/" + username
}

// GET /api/v1/public/{username}/avatar
// GetAvatar godoc
// @Summary Avatar image
// @Description Redirects to a short-lived signed URL of the stored avatar.
// @Tags Public
// @Param username path string true "Username"
// @Success 302 "Redirect to image"
// @Failure 404 {object} utils.Payload "No avatar"
// @Router /api/v1/public/{username}/avatar [get]
func (h *Handler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUserByUsername(r.Context(), r.PathValue("username"))
	if isNotFound(err) {
		utils.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Database error", err)
		return
	}
	if user.AvatarKey == "" || h.avatars == nil {
		utils.Fail(w, http.StatusNotFound, "No avatar")
		return
	}
	url, err := h.avatars.PresignGet(r.Context(), user.AvatarKey, avatarURLTTL)
	if err != nil {
		h.internalError(w, r, "Failed to sign avatar URL", err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}
