// Package profile turns stored users, channels and groups into the view shown
// on a public profile page.
package profile

import "github.com/rohits-web03/humandns/internal/models"

// DisplayName picks the name shown for a user. Username is always set, so the
// result is never empty for a valid user.
func DisplayName(u models.User) string {
	first, last := deref(u.FirstName), deref(u.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	case deref(u.DisplayName) != "":
		return *u.DisplayName
	}
	return u.Username
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
