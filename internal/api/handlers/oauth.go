package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rohits-web03/humandns/internal/api/services"
	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/utils"
	"go.uber.org/zap"
)

const (
	oauthStateCookie = "oauth_state"
	oauthGroupName   = "OAuth"
)

func (h *Handler) provider(w http.ResponseWriter, r *http.Request) *services.OAuthProvider {
	p, ok := h.oauth[r.PathValue("provider")]
	if !ok {
		utils.Fail(w, http.StatusNotFound, "Unknown or unconfigured OAuth provider")
		return nil
	}
	return p
}

// GET /api/v1/auth/oauth/{provider}/login
// OAuthLogin godoc
// @Summary Start OAuth login
// @Description Redirects to the provider's consent page (google, github, discord).
// @Tags Auth
// @Param provider path string true "Provider name"
// @Success 307 "Redirect to provider"
// @Failure 404 {object} utils.Payload "Unknown provider"
// @Router /api/v1/auth/oauth/{provider}/login [get]
func (h *Handler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	p := h.provider(w, r)
	if p == nil {
		return
	}

	state, err := GenerateState(h.cfg.JWTSecret, map[string]string{"provider": p.Name})
	if err != nil {
		h.internalError(w, r, "Failed to generate OAuth state", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/v1/auth/oauth",
		MaxAge:   600,
		Secure:   h.cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, p.Config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /api/v1/auth/oauth/{provider}/callback
// OAuthCallback godoc
// @Summary OAuth callback
// @Description Exchanges the code, links or creates the user and redirects to the frontend with a token.
// @Tags Auth
// @Param provider path string true "Provider name"
// @Param code query string true "Authorization code"
// @Param state query string true "State"
// @Success 307 "Redirect to frontend"
// @Router /api/v1/auth/oauth/{provider}/callback [get]
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	p := h.provider(w, r)
	if p == nil {
		return
	}
	fail := func(reason string) {
		target := fmt.Sprintf("%s/login?error=%s", h.cfg.FrontendURL, url.QueryEscape(reason))
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	}

	state := r.FormValue("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		fail("invalid_state")
		return
	}
	data, err := DecodeState(h.cfg.JWTSecret, state)
	if err != nil || data["provider"] != p.Name {
		fail("invalid_state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/api/v1/auth/oauth", MaxAge: -1})

	if errParam := r.FormValue("error"); errParam != "" {
		fail(errParam)
		return
	}

	ctx := r.Context()
	token, err := p.Config.Exchange(ctx, r.FormValue("code"))
	if err != nil {
		h.log.Warn("oauth code exchange failed", zap.String("provider", p.Name), zap.Error(err))
		fail("exchange_failed")
		return
	}
	identity, err := p.Identity(ctx, token)
	if err != nil {
		h.log.Warn("oauth identity fetch failed", zap.String("provider", p.Name), zap.Error(err))
		fail("userinfo_failed")
		return
	}

	user, err := h.linkOAuthUser(ctx, identity)
	if err != nil {
		h.log.Error("oauth user link failed", zap.String("provider", p.Name), zap.Error(err))
		fail("account_error")
		return
	}

	if err := h.addOAuthChannels(ctx, user, identity); err != nil {
		// The account is usable without the channels.
		h.log.Warn("oauth channel creation failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	h.invalidateProfile(ctx, user.Username)

	session, ok := h.issueSession(w, r, user)
	if !ok {
		return
	}
	target := fmt.Sprintf("%s/auth/callback/%s?token=%s",
		h.cfg.FrontendURL, p.Name, url.QueryEscape(session.AccessToken))
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// linkOAuthUser finds the user by provider id, then by email (linking the
// provider), and otherwise creates a new OAuth-only account.
func (h *Handler) linkOAuthUser(ctx context.Context, id services.Identity) (*models.User, error) {
	user, err := h.store.GetUserByProvider(ctx, id.Provider, id.ID)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email != "" {
		user, err = h.store.GetUserByEmail(ctx, email)
		if err == nil {
			user.SetProviderID(id.Provider, id.ID)
			if err := h.store.SaveUser(ctx, user); err != nil {
				return nil, fmt.Errorf("link %s account: %w", id.Provider, err)
			}
			return user, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}
	if email == "" {
		return nil, fmt.Errorf("%s account has no email", id.Provider)
	}

	username, err := h.uniqueUsername(ctx, id.Username, email)
	if err != nil {
		return nil, err
	}
	user = &models.User{
		Username:  username,
		Email:     email,
		FirstName: optional(id.FirstName),
		LastName:  optional(id.LastName),
		AvatarURL: optional(id.AvatarURL),
	}
	user.SetProviderID(id.Provider, id.ID)
	if err := h.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	h.log.Info("user registered via oauth", zap.String("provider", id.Provider), zap.Uint("user_id", user.ID))
	return user, nil
}

// uniqueUsername derives a valid, free username from the provider handle.
func (h *Handler) uniqueUsername(ctx context.Context, handle, email string) (string, error) {
	base := sanitizeUsername(handle)
	if len(base) < 3 {
		base = sanitizeUsername(strings.Split(email, "@")[0])
	}
	if len(base) < 3 {
		base = "user" + base
	}
	if len(base) > 40 {
		base = base[:40]
	}

	candidate := base
	for i := 1; i <= 100; i++ {
		taken, err := h.store.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	suffix, err := utils.GenerateOTP(6)
	if err != nil {
		return "", err
	}
	return base + suffix, nil
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// addOAuthChannels records the provider account as channels in the "OAuth"
// group, skipping values the user already has.
func (h *Handler) addOAuthChannels(ctx context.Context, user *models.User, id services.Identity) error {
	var ch models.Channel
	switch id.Provider {
	case models.MethodGoogle:
		if id.Email == "" {
			return nil
		}
		ch = models.Channel{Type: models.ChannelEmail, Value: id.Email, Label: optional("Google Email"), IsPrimary: true}
	case models.MethodGithub:
		if id.Username == "" {
			return nil
		}
		ch = models.Channel{Type: models.ChannelGithub, Value: "https://github.com/" + id.Username, Label: optional("GitHub Profile")}
	case models.MethodDiscord:
		if id.Username == "" {
			return nil
		}
		ch = models.Channel{Type: models.ChannelCustom, Value: "@" + id.Username, Label: optional("Discord")}
	default:
		return nil
	}

	exists, err := h.store.HasChannel(ctx, user.ID, ch.Type, ch.Value)
	if err != nil || exists {
		return err
	}

	group, err := h.store.GetGroupByName(ctx, user.ID, oauthGroupName)
	if isNotFound(err) {
		group = &models.Group{
			UserID:      user.ID,
			Name:        oauthGroupName,
			Description: optional("Accounts connected through OAuth"),
		}
		err = h.store.CreateGroup(ctx, group)
	}
	if err != nil {
		return fmt.Errorf("oauth group: %w", err)
	}

	ch.UserID = user.ID
	ch.GroupID = &group.ID
	ch.IsPublic = true
	return h.store.CreateChannel(ctx, &ch)
}

// optional maps "" to nil for nullable columns.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
