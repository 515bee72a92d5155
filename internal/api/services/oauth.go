package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rohits-web03/humandns/internal/config"
	"github.com/rohits-web03/humandns/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/api/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// Identity is what an OAuth provider tells us about the account holder.
type Identity struct {
	Provider  string
	ID        string
	Email     string
	Username  string
	Name      string
	FirstName string
	LastName  string
	AvatarURL string
}

type OAuthProvider struct {
	Name        string
	Config      *oauth2.Config
	UserInfoURL string
	// EmailsURL lists account emails when the profile may hide them (GitHub).
	EmailsURL string
}

// OAuthProviders holds the configured providers by name.
type OAuthProviders map[string]*OAuthProvider

// NewOAuthProviders builds a provider for every client with credentials.
func NewOAuthProviders(cfg config.Config) OAuthProviders {
	redirect := func(name string) string {
		return fmt.Sprintf("%s/api/v1/auth/oauth/%s/callback", cfg.APIBaseURL, name)
	}
	providers := OAuthProviders{}
	if cfg.Google.Enabled() {
		providers[models.MethodGoogle] = &OAuthProvider{
			Name: models.MethodGoogle,
			Config: &oauth2.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				RedirectURL:  redirect(models.MethodGoogle),
				Scopes: []string{
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/userinfo.profile",
				},
				Endpoint: google.Endpoint,
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		}
	}
	if cfg.Github.Enabled() {
		providers[models.MethodGithub] = &OAuthProvider{
			Name: models.MethodGithub,
			Config: &oauth2.Config{
				ClientID:     cfg.Github.ClientID,
				ClientSecret: cfg.Github.ClientSecret,
				RedirectURL:  redirect(models.MethodGithub),
				Scopes:       []string{"user:email"},
				Endpoint:     github.Endpoint,
			},
			UserInfoURL: "https://api.github.com/user",
			EmailsURL:   "https://api.github.com/user/emails",
		}
	}
	if cfg.Discord.Enabled() {
		providers[models.MethodDiscord] = &OAuthProvider{
			Name: models.MethodDiscord,
			Config: &oauth2.Config{
				ClientID:     cfg.Discord.ClientID,
				ClientSecret: cfg.Discord.ClientSecret,
				RedirectURL:  redirect(models.MethodDiscord),
				Scopes:       []string{"identify", "email"},
				Endpoint:     discordEndpoint,
			},
			UserInfoURL: "https://discord.com/api/users/@me",
		}
	}
	return providers
}

// Identity fetches the account behind an access token.
func (p *OAuthProvider) Identity(ctx context.Context, token *oauth2.Token) (Identity, error) {
	client := p.Config.Client(ctx, token)

	var raw map[string]any
	if err := getJSON(client, p.UserInfoURL, &raw); err != nil {
		return Identity{}, fmt.Errorf("failed to get %s user info: %w", p.Name, err)
	}

	id := Identity{Provider: p.Name, ID: stringField(raw, "id"), Email: stringField(raw, "email")}
	switch p.Name {
	case models.MethodGoogle:
		id.Name = stringField(raw, "name")
		id.FirstName = stringField(raw, "given_name")
		id.LastName = stringField(raw, "family_name")
		id.AvatarURL = stringField(raw, "picture")
		id.Username = strings.Split(id.Email, "@")[0]
	case models.MethodGithub:
		id.Username = stringField(raw, "login")
		id.Name = stringField(raw, "name")
		id.FirstName, id.LastName = splitName(id.Name)
		id.AvatarURL = stringField(raw, "avatar_url")
		if p.EmailsURL != "" {
			var emails []struct {
				Email   string `json:"email"`
				Primary bool   `json:"primary"`
			}
			// private emails are optional, fall back to the profile email
			if err := getJSON(client, p.EmailsURL, &emails); err == nil {
				for _, e := range emails {
					if e.Primary {
						id.Email = e.Email
						break
					}
				}
			}
		}
	case models.MethodDiscord:
		id.Username = stringField(raw, "username")
		id.Name = stringField(raw, "global_name")
		if id.Name == "" {
			id.Name = id.Username
		}
		id.FirstName = id.Name
		if avatar := stringField(raw, "avatar"); avatar != "" {
			id.AvatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", id.ID, avatar)
		}
	}
	if id.ID == "" {
		return Identity{}, fmt.Errorf("%s returned no account id", p.Name)
	}
	return id, nil
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// stringField reads a JSON field that may be a string or a number (GitHub ids).
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
