package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	otpDigits        = 6
	otpTTL           = 10 * time.Minute
	recoveryTokenTTL = time.Hour
)

type RecoveryInput struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyInput struct {
	Email      string `json:"email" validate:"required,email"`
	Method     string `json:"method" validate:"required,oneof=email google github discord"`
	Code       string `json:"code,omitempty" validate:"required_if=Method email"`
	OAuthToken string `json:"oauth_token,omitempty" validate:"required_unless=Method email"`
}

type RecoveryResponse struct {
	Message          string   `json:"message"`
	AvailableMethods []string `json:"available_methods"`
	Warning          string   `json:"warning,omitempty"`
}

type OTPResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"`
}

type SecurityInfo struct {
	Connected      int      `json:"connected"`
	Total          int      `json:"total"`
	Methods        []string `json:"methods"`
	Level          string   `json:"level"`
	Recommendation string   `json:"recommendation"`
}

// SecurityLevel rates how many login methods are connected.
func SecurityLevel(connected int) string {
	switch {
	case connected <= 1:
		return "low"
	case connected == 2:
		return "medium"
	default:
		return "high"
	}
}

func securityInfo(u *models.User) SecurityInfo {
	methods := u.LoginMethods()
	rec := "Your account is well protected"
	if len(methods) < 3 {
		rec = "Connect more login methods for better security"
	}
	return SecurityInfo{
		Connected:      len(methods),
		Total:          len(models.AllLoginMethods),
		Methods:        methods,
		Level:          SecurityLevel(len(methods)),
		Recommendation: rec,
	}
}

// issueOTP stores a fresh OTP and recovery token on the user and mails the code.
func (h *Handler) issueOTP(w http.ResponseWriter, r *http.Request) *models.User {
	var input RecoveryInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return nil
	}
	email := normalizeEmail(input.Email)
	input.Email = email
	if !h.valid(w, input) {
		return nil
	}

	ctx := r.Context()
	user, err := h.store.GetUserByEmail(ctx, email)
	if isNotFound(err) {
		utils.Fail(w, http.StatusNotFound, "User not found")
		return nil
	}
	if err != nil {
		h.internalError(w, r, "Database error", err)
		return nil
	}

	code, err := utils.GenerateOTP(otpDigits)
	if err != nil {
		h.internalError(w, r, "Failed to generate code", err)
		return nil
	}
	recovery, err := utils.GenerateSecureToken(32)
	if err != nil {
		h.internalError(w, r, "Failed to generate recovery token", err)
		return nil
	}
	now := h.now()
	otpExpiry := now.Add(otpTTL)
	recoveryExpiry := now.Add(recoveryTokenTTL)
	user.OTPCode = &code
	user.OTPExpiresAt = &otpExpiry
	user.RecoveryToken = &recovery
	user.RecoveryExpiresAt = &recoveryExpiry
	if err := h.store.SaveUser(ctx, user); err != nil {
		h.internalError(w, r, "Database error", err)
		return nil
	}

	if err := h.mailer.SendOTP(ctx, user.Email, code, otpTTL); err != nil {
		h.internalError(w, r, "Failed to send recovery code", err)
		return nil
	}
	return user
}

// POST /api/v1/auth/recover
// StartRecovery godoc
// @Summary Start account recovery
// @Description Sends a one-time code by email and lists the recovery methods available.
// @Tags Recovery
// @Accept json
// @Produce json
// @Param input body RecoveryInput true "Account email"
// @Success 200 {object} utils.Payload{data=RecoveryResponse}
// @Failure 404 {object} utils.Payload "User not found"
// @Router /api/v1/auth/recover [post]
func (h *Handler) StartRecovery(w http.ResponseWriter, r *http.Request) {
	user := h.issueOTP(w, r)
	if user == nil {
		return
	}
	resp := RecoveryResponse{
		Message:          "Recovery initiated",
		AvailableMethods: user.LoginMethods(),
	}
	if len(resp.AvailableMethods) <= 1 {
		resp.Warning = "Only one login method is connected. Add another one after recovering your account."
	}
	utils.OK(w, http.StatusOK, "Recovery initiated", resp)
}

// POST /api/v1/auth/otp
// SendOTP godoc
// @Summary Send a new recovery code
// @Tags Recovery
// @Accept json
// @Produce json
// @Param input body RecoveryInput true "Account email"
// @Success 200 {object} utils.Payload{data=OTPResponse}
// @Failure 404 {object} utils.Payload "User not found"
// @Router /api/v1/auth/otp [post]
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	if h.issueOTP(w, r) == nil {
		return
	}
	utils.OK(w, http.StatusOK, "OTP code sent to your email", OTPResponse{
		Message:   "OTP code sent to your email",
		ExpiresIn: int(otpTTL.Seconds()),
	})
}

// POST /api/v1/auth/verify
// VerifyRecovery godoc
// @Summary Finish account recovery
// @Description Verifies an email code or a provider access token and returns a new access token.
// @Tags Recovery
// @Accept json
// @Produce json
// @Param input body VerifyInput true "Proof of ownership"
// @Success 200 {object} utils.Payload{data=TokenResponse}
// @Failure 400 {object} utils.Payload "Invalid or expired code"
// @Router /api/v1/auth/verify [post]
func (h *Handler) VerifyRecovery(w http.ResponseWriter, r *http.Request) {
	var input VerifyInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	email := normalizeEmail(input.Email)
	input.Email = email
	if !h.valid(w, input) {
		return
	}

	ctx := r.Context()
	user, err := h.store.GetUserByEmail(ctx, email)
	if isNotFound(err) {
		utils.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Database error", err)
		return
	}

	switch input.Method {
	case models.MethodEmail:
		code := strings.TrimSpace(input.Code)
		if code == "" || user.OTPCode == nil || user.OTPExpiresAt == nil ||
			subtle.ConstantTimeCompare([]byte(code), []byte(*user.OTPCode)) != 1 {
			utils.Fail(w, http.StatusBadRequest, "Invalid code")
			return
		}
		if h.now().After(*user.OTPExpiresAt) {
			utils.Fail(w, http.StatusBadRequest, "Code has expired")
			return
		}

	case models.MethodGoogle, models.MethodGithub, models.MethodDiscord:
		linked := user.ProviderID(input.Method)
		p, ok := h.oauth[input.Method]
		if linked == "" || !ok {
			utils.Fail(w, http.StatusBadRequest, "This recovery method is not available for the account")
			return
		}
		identity, err := p.Identity(ctx, &oauth2.Token{AccessToken: input.OAuthToken, TokenType: "Bearer"})
		if err != nil || identity.ID != linked {
			h.log.Warn("oauth recovery rejected", zap.String("provider", input.Method), zap.Uint("user_id", user.ID), zap.Error(err))
			utils.Fail(w, http.StatusBadRequest, "OAuth verification failed")
			return
		}

	default:
		utils.Fail(w, http.StatusBadRequest, "Unknown recovery method")
		return
	}

	user.OTPCode = nil
	user.OTPExpiresAt = nil
	user.RecoveryToken = nil
	user.RecoveryExpiresAt = nil
	if err := h.store.SaveUser(ctx, user); err != nil {
		h.internalError(w, r, "Database error", err)
		return
	}

	token, ok := h.issueSession(w, r, user)
	if !ok {
		return
	}
	h.log.Info("account recovered", zap.Uint("user_id", user.ID), zap.String("method", input.Method))
	utils.OK(w, http.StatusOK, "Account recovered successfully", token)
}

// GET /api/v1/auth/security
// Security godoc
// @Summary Account security summary
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=SecurityInfo}
// @Router /api/v1/auth/security [get]
func (h *Handler) Security(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	utils.OK(w, http.StatusOK, "Security info retrieved", securityInfo(user))
}
