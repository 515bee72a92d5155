package api

import (
	"fmt"
	"net/http"

	_ "github.com/rohits-web03/humandns/docs"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/rohits-web03/humandns/internal/api/handlers"
	"github.com/rohits-web03/humandns/internal/api/middleware"
	"github.com/rohits-web03/humandns/internal/api/services"
	"github.com/rohits-web03/humandns/internal/config"
	"github.com/rohits-web03/humandns/internal/repositories"
	"github.com/rs/cors"
)

// RouterDeps are what the router needs beyond the handlers themselves.
type RouterDeps struct {
	Config config.Config
	Store  *repositories.Store
	Tokens *services.TokenManager
	Cache  repositories.Cache
	Log    *zap.Logger
}

func SetupRouter(h *handlers.Handler, d RouterDeps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	mainMux := http.NewServeMux()
	c := cors.New(d.Config.CorsConfig)
	protected := middleware.Auth(d.Tokens, d.Cache, d.Log)
	auth := func(fn http.HandlerFunc) http.Handler {
		return protected(fn)
	}

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.Ping(r.Context()); err != nil {
			d.Log.Error("health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, "DB UNAVAILABLE")
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	// ---------- AUTH ----------
	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /register", h.Register)
	authMux.HandleFunc("POST /login", h.Login)
	authMux.HandleFunc("POST /recover", h.StartRecovery)
	authMux.HandleFunc("POST /otp", h.SendOTP)
	authMux.HandleFunc("POST /verify", h.VerifyRecovery)
	authMux.HandleFunc("GET /oauth/{provider}/login", h.OAuthLogin)
	authMux.HandleFunc("GET /oauth/{provider}/callback", h.OAuthCallback)
	authMux.Handle("POST /logout", auth(h.Logout))
	authMux.Handle("GET /me", auth(h.Me))
	authMux.Handle("GET /security", auth(h.Security))

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", authMux),
	)

	// ---------- PUBLIC PROFILES ----------
	publicMux := http.NewServeMux()
	publicMux.HandleFunc("GET /{username}", h.GetPublicProfile)
	publicMux.HandleFunc("GET /{username}/view", h.GetProfileView)
	publicMux.HandleFunc("GET /{username}/vcard", h.GetVCard)
	publicMux.HandleFunc("GET /{username}/qr", h.GetQR)
	publicMux.HandleFunc("GET /{username}/avatar", h.GetAvatar)

	mainMux.Handle("/api/v1/public/",
		http.StripPrefix("/api/v1/public", publicMux),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("PUT /users/me", h.UpdateProfile)
	protectedMux.HandleFunc("DELETE /users/me", h.DeleteAccount)
	protectedMux.HandleFunc("POST /users/me/avatar", h.UploadAvatar)
	protectedMux.HandleFunc("DELETE /users/me/avatar", h.DeleteAvatar)

	protectedMux.HandleFunc("GET /channels", h.ListChannels)
	protectedMux.HandleFunc("POST /channels", h.CreateChannel)
	protectedMux.HandleFunc("GET /channels/{id}", h.GetChannel)
	protectedMux.HandleFunc("PUT /channels/{id}", h.UpdateChannel)
	protectedMux.HandleFunc("DELETE /channels/{id}", h.DeleteChannel)

	protectedMux.HandleFunc("GET /groups", h.ListGroups)
	protectedMux.HandleFunc("POST /groups", h.CreateGroup)
	protectedMux.HandleFunc("GET /groups/{id}", h.GetGroup)
	protectedMux.HandleFunc("PUT /groups/{id}", h.UpdateGroup)
	protectedMux.HandleFunc("DELETE /groups/{id}", h.DeleteGroup)

	protectedMux.HandleFunc("GET /contacts", h.ListContacts)
	protectedMux.HandleFunc("GET /contacts/search", h.SearchContacts)
	protectedMux.HandleFunc("POST /contacts/{user_id}", h.AddContact)
	protectedMux.HandleFunc("DELETE /contacts/{user_id}", h.RemoveContact)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			protected(protectedMux),
		),
	)

	d.Log.Info("router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(d.Log)(handler)
	return handler
}
