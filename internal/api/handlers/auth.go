package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/rohits-web03/humandns/internal/api/middleware"
	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// POST /api/v1/auth/register
// Register godoc
// @Summary Register a new user
// @Description Creates an account with username, email and password.
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body RegisterInput true "Account details"
// @Success 201 {object} utils.Payload "User registered successfully"
// @Failure 400 {object} utils.Payload "Invalid input or duplicate email/username"
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)
	if !h.valid(w, input) {
		return
	}
	email := input.Email

	ctx := r.Context()
	if _, err := h.store.GetUserByEmail(ctx, email); err == nil {
		utils.Fail(w, http.StatusBadRequest, "User already exists with this email")
		return
	} else if !isNotFound(err) {
		h.internalError(w, r, "Database query failed", err)
		return
	}

	taken, err := h.store.UsernameTaken(ctx, input.Username)
	if err != nil {
		h.internalError(w, r, "Database query failed", err)
		return
	}
	if taken {
		utils.Fail(w, http.StatusBadRequest, "Username is already taken")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalError(w, r, "Failed to hash password", err)
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    email,
		Password: string(hashed),
	}
	if err := h.store.CreateUser(ctx, &user); err != nil {
		h.internalError(w, r, "Database insert failed", err)
		return
	}

	h.log.Info("user registered", zap.Uint("user_id", user.ID))
	utils.OK(w, http.StatusCreated, "User registered successfully", user)
}

// POST /api/v1/auth/login
// Login godoc
// @Summary Log in with email and password
// @Description Returns a bearer token and sets it as an HttpOnly cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "Credentials"
// @Success 200 {object} utils.Payload{data=TokenResponse} "Login successful"
// @Failure 401 {object} utils.Payload "Invalid credentials"
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	email := normalizeEmail(input.Email)
	input.Email = email
	if !h.valid(w, input) {
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), email)
	if isNotFound(err) {
		utils.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.internalError(w, r, "Database error", err)
		return
	}

	// OAuth-only accounts have no password to compare against.
	if user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		utils.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, ok := h.issueSession(w, r, user)
	if !ok {
		return
	}
	utils.OK(w, http.StatusOK, "Login successful", token)
}

// issueSession signs an access token for user and sets the session cookie.
func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, user *models.User) (*TokenResponse, bool) {
	tokenString, expiration, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.internalError(w, r, "Failed to create token", err)
		return nil, false
	}
	h.setTokenCookie(w, tokenString, int(time.Until(expiration).Seconds()))
	return &TokenResponse{AccessToken: tokenString, TokenType: "bearer"}, true
}

// setTokenCookie writes the session cookie; maxAge < 0 deletes it.
func (h *Handler) setTokenCookie(w http.ResponseWriter, value string, maxAge int) {
	isProd := h.cfg.IsProduction()

	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

// revokeCurrentToken blacklists the request's token until it would expire.
func (h *Handler) revokeCurrentToken(r *http.Request) error {
	tok, exp := middleware.Token(r.Context())
	if tok == "" {
		return nil
	}
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return h.cache.Set(r.Context(), middleware.RevokedKey(tok), []byte("1"), ttl)
}

// POST /api/v1/auth/logout
// Logout godoc
// @Summary Log out
// @Description Revokes the current token and clears the session cookie.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload "Logged out successfully"
// @Failure 401 {object} utils.Payload "Unauthorized"
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.revokeCurrentToken(r); err != nil {
		h.internalError(w, r, "Failed to revoke token", err)
		return
	}
	h.setTokenCookie(w, "", -1)
	utils.OK(w, http.StatusOK, "Logged out successfully", nil)
}

// GET /api/v1/auth/me
// Me godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=models.User}
// @Failure 401 {object} utils.Payload "Unauthorized"
// @Router /api/v1/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	utils.OK(w, http.StatusOK, "User retrieved successfully", user)
}
