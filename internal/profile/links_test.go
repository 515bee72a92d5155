package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rohits-web03/humandns/internal/models"
)

func TestChannelLink(t *testing.T) {
	tests := []struct {
		typ   models.ChannelType
		value string
		want  string
	}{
		{models.ChannelPhone, " 555-1234 ", "tel:555-1234"},
		{models.ChannelEmail, "a@example.com", "mailto:a@example.com"},
		{models.ChannelTelegram, "@alice", "https://t.me/alice"},
		{models.ChannelTelegram, "alice", "https://t.me/alice"},
		{models.ChannelTelegram, "https://t.me/alice", "https://t.me/alice"},
		{models.ChannelWhatsApp, "+1 (555) 123-4567", "https://wa.me/15551234567"},
		{models.ChannelWhatsApp, "http://wa.me/1555", "http://wa.me/1555"},
		{models.ChannelSignal, "https://signal.me/#p/+15551234", "https://signal.me/#p/+15551234"},
		{models.ChannelSignal, "+15551234", "+15551234"},
		{models.ChannelInstagram, "@alice", "https://instagram.com/alice"},
		{models.ChannelTwitter, "alice", "https://twitter.com/alice"},
		{models.ChannelGithub, "@alice", "https://github.com/alice"},
		{models.ChannelGithub, "https://github.com/alice", "https://github.com/alice"},
		{models.ChannelFacebook, "@john", "https://john"},
		{models.ChannelFacebook, "https://facebook.com/john", "https://facebook.com/john"},
		{models.ChannelLinkedIn, "john", "https://john"},
		{models.ChannelLinkedIn, "//linkedin.com/in/john", "https://linkedin.com/in/john"},
		{models.ChannelWebsite, "example.com", "https://example.com"},
		{models.ChannelWebsite, "HTTP://example.com", "HTTP://example.com"},
		{models.ChannelWebsite, "//example.com/x", "https://example.com/x"},
		{models.ChannelCustom, "@handle", "https://handle"},
		{models.ChannelType("unknown"), "example.org", "https://example.org"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ChannelLink(tt.typ, tt.value))
		})
	}
}

func TestChannelLinkPassesHTTPThrough(t *testing.T) {
	for _, v := range []string{"http://example.com/a", "https://example.com/b?c=d"} {
		assert.Equal(t, v, ChannelLink(models.ChannelTelegram, v))
		assert.Equal(t, v, ChannelLink(models.ChannelWhatsApp, v))
	}
}

func TestChannelLinkFallsBackOnMalformedValues(t *testing.T) {
	tests := []struct {
		typ   models.ChannelType
		value string
	}{
		{models.ChannelWebsite, "exa mple.com"},
		{models.ChannelCustom, "bad%zzescape.com"},
		{models.ChannelWebsite, "javascript:alert(1)"},
		{models.ChannelSignal, "javascript:alert(1)"},
		{models.ChannelTelegram, "http://bad host"},
		{models.ChannelWebsite, "example.com/\x7f"},
	}
	for _, tt := range tests {
		assert.NotPanics(t, func() {
			assert.Equal(t, UnsafeLink, ChannelLink(tt.typ, tt.value), "value %q", tt.value)
		})
	}
}
