package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rohits-web03/humandns/internal/api/middleware"
	"github.com/rohits-web03/humandns/internal/api/services"
	"github.com/rohits-web03/humandns/internal/config"
	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/repositories"
	"github.com/rohits-web03/humandns/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AvatarStore is the object storage used for avatar images.
type AvatarStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

type Deps struct {
	Config  config.Config
	Store   *repositories.Store
	Avatars AvatarStore // optional; avatar endpoints answer 503 without it
	Cache   repositories.Cache
	Tokens  *services.TokenManager
	OAuth   services.OAuthProviders
	Mailer  services.Mailer
	Log     *zap.Logger
}

// Handler serves the HTTP API. Every route is a method so handlers share
// their dependencies without package globals.
type Handler struct {
	cfg      config.Config
	store    *repositories.Store
	avatars  AvatarStore
	cache    repositories.Cache
	tokens   *services.TokenManager
	oauth    services.OAuthProviders
	mailer   services.Mailer
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	mailer := d.Mailer
	if mailer == nil {
		mailer = services.LogMailer{Log: log}
	}
	oauth := d.OAuth
	if oauth == nil {
		oauth = services.OAuthProviders{}
	}
	return &Handler{
		cfg:      d.Config,
		store:    d.Store,
		avatars:  d.Avatars,
		cache:    d.Cache,
		tokens:   d.Tokens,
		oauth:    oauth,
		mailer:   mailer,
		validate: newValidator(),
		log:      log,
		now:      time.Now,
	}
}

// internalError logs err and answers with a generic message.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	utils.Fail(w, http.StatusInternalServerError, msg)
}

// currentUser loads the authenticated user. It writes the error response and
// returns nil when the user cannot be loaded.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) *models.User {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return nil
	}
	user, err := h.store.GetUser(r.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Account deleted while the token was still valid.
		utils.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return nil
	}
	if err != nil {
		h.internalError(w, r, "Database error", err)
		return nil
	}
	return user
}

func pathID(r *http.Request, name string) (uint, bool) {
	v, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func profileCacheKey(username string) string {
	return "profile:" + username
}

// invalidateProfile drops the cached public profile after an owner mutation.
func (h *Handler) invalidateProfile(ctx context.Context, username string) {
	if err := h.cache.Delete(ctx, profileCacheKey(username)); err != nil {
		h.log.Warn("profile cache invalidation failed",
			zap.String("username", username),
			zap.Error(err),
		)
	}
}
