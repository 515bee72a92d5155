package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rohits-web03/humandns/internal/api/services"
	"github.com/rohits-web03/humandns/internal/repositories"
	"github.com/rohits-web03/humandns/internal/utils"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey      contextKey = "userID"
	tokenKey       contextKey = "token"
	tokenExpiryKey contextKey = "tokenExpiry"
)

// TokenCookie holds the access token for browser clients.
const TokenCookie = "token"

// RevokedKey is the cache key marking a token as logged out.
func RevokedKey(token string) string {
	return "revoked:" + token
}

// Auth accepts a bearer token or the token cookie, rejects revoked tokens
// and stores the user id in the request context.
func Auth(tokens *services.TokenManager, cache repositories.Cache, log *zap.Logger) func(http.Handler) http.Handler {
	unauthorized := func(w http.ResponseWriter) {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := ExtractToken(r)
			if tokenStr == "" {
				unauthorized(w)
				return
			}

			userID, expiry, err := tokens.Verify(tokenStr)
			if err != nil {
				unauthorized(w)
				return
			}

			revoked, err := cache.Exists(r.Context(), RevokedKey(tokenStr))
			if err != nil {
				log.Error("revocation check failed", zap.Error(err))
				utils.JSONResponse(w, http.StatusServiceUnavailable, utils.Payload{
					Success: false,
					Message: "Service unavailable",
				})
				return
			}
			if revoked {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, tokenKey, tokenStr)
			ctx = context.WithValue(ctx, tokenExpiryKey, expiry)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken reads the Authorization header, falling back to the cookie.
func ExtractToken(r *http.Request) string {
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		parts := strings.SplitN(hdr, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// UserID returns the authenticated user id set by Auth.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}

// Token returns the raw token and its expiry set by Auth.
func Token(ctx context.Context) (string, time.Time) {
	tok, _ := ctx.Value(tokenKey).(string)
	exp, _ := ctx.Value(tokenExpiryKey).(time.Time)
	return tok, exp
}
