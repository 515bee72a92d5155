package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/rohits-web03/humandns/internal/models"
)

const (
	// DeleteConfirmation must be typed to delete an account.
	DeleteConfirmation = "DELETE MY ACCOUNT"
	MaxAvatarBytes     = 5 << 20
	minSearchLen       = 2
)

type PublicProfile struct {
	User     models.PublicUser `json:"user"`
	Channels []models.Channel  `json:"channels"`
	Groups   []models.Group    `json:"groups"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type SecurityInfo struct {
	Connected      int      `json:"connected"`
	Total          int      `json:"total"`
	Methods        []string `json:"methods"`
	Level          string   `json:"level"`
	Recommendation string   `json:"recommendation"`
}

type Recovery struct {
	Message          string   `json:"message"`
	AvailableMethods []string `json:"available_methods"`
	Warning          string   `json:"warning,omitempty"`
}

type OTPSent struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"`
}

type Contact struct {
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

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

type ChannelInput struct {
	Type      models.ChannelType `json:"type"`
	Value     string             `json:"value"`
	Label     *string            `json:"label,omitempty"`
	IsPublic  *bool              `json:"is_public,omitempty"`
	IsPrimary bool               `json:"is_primary"`
	SortOrder int                `json:"sort_order"`
	GroupID   *uint              `json:"group_id,omitempty"`
}

// ChannelUpdate changes only the fields that are set. Ungroup moves the
// channel out of its group and wins over GroupID.
type ChannelUpdate struct {
	Type      *models.ChannelType
	Value     *string
	Label     *string
	IsPublic  *bool
	IsPrimary *bool
	SortOrder *int
	GroupID   *uint
	Ungroup   bool
}

func (u ChannelUpdate) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	if u.Type != nil {
		m["type"] = *u.Type
	}
	if u.Value != nil {
		m["value"] = *u.Value
	}
	if u.Label != nil {
		m["label"] = *u.Label
	}
	if u.IsPublic != nil {
		m["is_public"] = *u.IsPublic
	}
	if u.IsPrimary != nil {
		m["is_primary"] = *u.IsPrimary
	}
	if u.SortOrder != nil {
		m["sort_order"] = *u.SortOrder
	}
	switch {
	case u.Ungroup:
		m["group_id"] = nil
	case u.GroupID != nil:
		m["group_id"] = *u.GroupID
	}
	return json.Marshal(m)
}

type GroupInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	SortOrder   int     `json:"sort_order"`
}

type GroupUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
}

// ---------- auth ----------

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*models.User, error) {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return nil, invalid("username", "required")
	case strings.TrimSpace(in.Email) == "":
		return nil, invalid("email", "required")
	case in.Password == "":
		return nil, invalid("password", "required")
	}
	var u models.User
	if err := c.Do(ctx, http.MethodPost, "/auth/register", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("email", "required")
	}
	if password == "" {
		return invalid("password", "required")
	}
	var tok Token
	body := map[string]string{"email": email, "password": password}
	if err := c.Do(ctx, http.MethodPost, "/auth/login", body, &tok); err != nil {
		return err
	}
	return c.tokens.Set(tok.AccessToken)
}

// Logout revokes the token on the server and always forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if clearErr := c.tokens.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.Do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Security(ctx context.Context) (*SecurityInfo, error) {
	var info SecurityInfo
	if err := c.Do(ctx, http.MethodGet, "/auth/security", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ---------- recovery ----------

func (c *Client) StartRecovery(ctx context.Context, email string) (*Recovery, error) {
	if strings.TrimSpace(email) == "" {
		return nil, invalid("email", "required")
	}
	var out Recovery
	if err := c.Do(ctx, http.MethodPost, "/auth/recover", map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResendOTP(ctx context.Context, email string) (*OTPSent, error) {
	if strings.TrimSpace(email) == "" {
		return nil, invalid("email", "required")
	}
	var out OTPSent
	if err := c.Do(ctx, http.MethodPost, "/auth/otp", map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyRecovery proves ownership with an email code (method "email") or a
// provider access token, and stores the returned token.
func (c *Client) VerifyRecovery(ctx context.Context, email, method, secret string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("email", "required")
	}
	body := map[string]string{"email": email, "method": method}
	switch method {
	case models.MethodEmail:
		if strings.TrimSpace(secret) == "" {
			return invalid("code", "required")
		}
		body["code"] = strings.TrimSpace(secret)
	case models.MethodGoogle, models.MethodGithub, models.MethodDiscord:
		if secret == "" {
			return invalid("oauth_token", "required")
		}
		body["oauth_token"] = secret
	default:
		return invalid("method", "must be email, google, github or discord")
	}
	var tok Token
	if err := c.Do(ctx, http.MethodPost, "/auth/verify", body, &tok); err != nil {
		return err
	}
	return c.tokens.Set(tok.AccessToken)
}

// ---------- account ----------

func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*models.User, error) {
	var u models.User
	if err := c.Do(ctx, http.MethodPut, "/users/me", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteAccount requires confirm to equal DeleteConfirmation.
func (c *Client) DeleteAccount(ctx context.Context, confirm string) error {
	if confirm != DeleteConfirmation {
		return invalid("confirm", fmt.Sprintf("type %q to confirm", DeleteConfirmation))
	}
	if err := c.Do(ctx, http.MethodDelete, "/users/me", map[string]string{"confirm": confirm}, nil); err != nil {
		return err
	}
	return c.tokens.Clear()
}

// UploadAvatar checks size and content type locally before uploading.
func (c *Client) UploadAvatar(ctx context.Context, filename string, data []byte) (*models.User, error) {
	if len(data) == 0 {
		return nil, &UploadError{Reason: "file is empty"}
	}
	if len(data) > MaxAvatarBytes {
		return nil, &UploadError{Reason: "file is larger than 5 MB"}
	}
	mt := mimetype.Detect(data)
	if !mt.Is("image/jpeg") && !mt.Is("image/png") && !mt.Is("image/webp") {
		return nil, &UploadError{Reason: "only JPEG, PNG and WebP images are allowed, got " + mt.String()}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/users/me/avatar", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	raw, err := c.send(req)
	if err != nil {
		return nil, err
	}
	var env struct {
		Data models.User `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &RequestError{StatusCode: http.StatusOK, Message: "malformed response", Err: err}
	}
	return &env.Data, nil
}

func (c *Client) DeleteAvatar(ctx context.Context) error {
	return c.Do(ctx, http.MethodDelete, "/users/me/avatar", nil, nil)
}

// ---------- channels ----------

func (c *Client) ListChannels(ctx context.Context) ([]models.Channel, error) {
	var out []models.Channel
	if err := c.Do(ctx, http.MethodGet, "/channels", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateChannel(ctx context.Context, in ChannelInput) (*models.Channel, error) {
	if !in.Type.Valid() {
		return nil, invalid("type", fmt.Sprintf("unknown channel type %q", in.Type))
	}
	if strings.TrimSpace(in.Value) == "" {
		return nil, invalid("value", "required")
	}
	var ch models.Channel
	if err := c.Do(ctx, http.MethodPost, "/channels", in, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) UpdateChannel(ctx context.Context, id uint, in ChannelUpdate) (*models.Channel, error) {
	if in.Type != nil && !in.Type.Valid() {
		return nil, invalid("type", fmt.Sprintf("unknown channel type %q", *in.Type))
	}
	if in.Value != nil && strings.TrimSpace(*in.Value) == "" {
		return nil, invalid("value", "required")
	}
	var ch models.Channel
	if err := c.Do(ctx, http.MethodPut, "/channels/"+idPath(id), in, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) DeleteChannel(ctx context.Context, id uint) error {
	return c.Do(ctx, http.MethodDelete, "/channels/"+idPath(id), nil, nil)
}

// ---------- groups ----------

func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var out []models.Group
	if err := c.Do(ctx, http.MethodGet, "/groups", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateGroup(ctx context.Context, in GroupInput) (*models.Group, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("name", "required")
	}
	var g models.Group
	if err := c.Do(ctx, http.MethodPost, "/groups", in, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) UpdateGroup(ctx context.Context, id uint, in GroupUpdate) (*models.Group, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, invalid("name", "required")
	}
	var g models.Group
	if err := c.Do(ctx, http.MethodPut, "/groups/"+idPath(id), in, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) DeleteGroup(ctx context.Context, id uint) error {
	return c.Do(ctx, http.MethodDelete, "/groups/"+idPath(id), nil, nil)
}

// ---------- contacts ----------

func (c *Client) ListContacts(ctx context.Context) ([]Contact, error) {
	var out []Contact
	if err := c.Do(ctx, http.MethodGet, "/contacts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchContacts needs at least two non-blank characters. limit <= 0 uses
// the server default.
func (c *Client) SearchContacts(ctx context.Context, q string, limit int) ([]SearchResult, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < minSearchLen {
		return nil, invalid("q", "enter at least 2 characters")
	}
	params := url.Values{"q": {q}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var out []SearchResult
	if err := c.Do(ctx, http.MethodGet, "/contacts/search?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddContact(ctx context.Context, userID uint) (*Contact, error) {
	var out Contact
	if err := c.Do(ctx, http.MethodPost, "/contacts/"+idPath(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveContact(ctx context.Context, userID uint) error {
	return c.Do(ctx, http.MethodDelete, "/contacts/"+idPath(userID), nil, nil)
}

// ---------- public ----------

func (c *Client) PublicProfile(ctx context.Context, username string) (*PublicProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, invalid("username", "required")
	}
	var out PublicProfile
	if err := c.Do(ctx, http.MethodGet, "/public/"+url.PathEscape(username), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VCard(ctx context.Context, username string) ([]byte, error) {
	return c.DoRaw(ctx, "/public/"+url.PathEscape(username)+"/vcard")
}

// QR returns a PNG of the profile URL; size 0 uses the server default.
func (c *Client) QR(ctx context.Context, username string, size int) ([]byte, error) {
	path := "/public/" + url.PathEscape(username) + "/qr"
	if size > 0 {
		path += "?size=" + strconv.Itoa(size)
	}
	return c.DoRaw(ctx, path)
}

func idPath(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
