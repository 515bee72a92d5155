package profile

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rohits-web03/humandns/internal/models"
)

// UnsafeLink replaces any href that does not survive validation.
const UnsafeLink = "#"

const dummyBase = "https://dummy.base"

var (
	httpPrefix = regexp.MustCompile(`(?i)^https?://`)
	nonDigits  = regexp.MustCompile(`\D`)
)

var handleBases = map[models.ChannelType]string{
	models.ChannelInstagram: "https://instagram.com/",
	models.ChannelTwitter:   "https://twitter.com/",
	models.ChannelGithub:    "https://github.com/",
}

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"tel":    true,
	"mailto": true,
	"sgnl":   true,
	"signal": true,
}

// ChannelLink builds the URI a channel opens. Values are untrusted free text;
// anything that does not parse into an allowed URI becomes UnsafeLink.
func ChannelLink(t models.ChannelType, value string) string {
	return validate(candidateLink(t, strings.TrimSpace(value)))
}

func candidateLink(t models.ChannelType, v string) string {
	switch t {
	case models.ChannelPhone:
		return "tel:" + v
	case models.ChannelEmail:
		return "mailto:" + v
	case models.ChannelTelegram:
		if strings.HasPrefix(v, "http") {
			return v
		}
		return "https://t.me/" + strings.TrimPrefix(v, "@")
	case models.ChannelWhatsApp:
		if strings.HasPrefix(v, "http") {
			return v
		}
		return "https://wa.me/" + nonDigits.ReplaceAllString(v, "")
	case models.ChannelSignal:
		return v
	}
	if base, ok := handleBases[t]; ok {
		if httpPrefix.MatchString(v) {
			return v
		}
		return base + strings.TrimPrefix(v, "@")
	}
	return NormalizeHTTPURL(v)
}

// NormalizeHTTPURL turns a loosely typed address into an https URL.
func NormalizeHTTPURL(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case httpPrefix.MatchString(v):
		return v
	case strings.HasPrefix(v, "//"):
		return "https:" + v
	}
	return "https://" + strings.TrimPrefix(v, "@")
}

func validate(href string) string {
	base, _ := url.Parse(dummyBase)
	ref, err := url.Parse(href)
	if err != nil {
		return UnsafeLink
	}
	if !allowedSchemes[strings.ToLower(base.ResolveReference(ref).Scheme)] {
		return UnsafeLink
	}
	return href
}
