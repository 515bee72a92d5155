package profile

import (
	"strings"

	"github.com/rohits-web03/humandns/internal/models"
)

var vcardEscaper = strings.NewReplacer(`\`, `\\`, `,`, `\,`, `;`, `\;`, "\r\n", `\n`, "\n", `\n`)

// VCard serializes a profile view as a vCard 3.0 card. Channels are written in
// section order.
func VCard(v View) string {
	var b strings.Builder
	line := func(parts ...string) {
		for _, p := range parts {
			b.WriteString(p)
		}
		b.WriteString("\r\n")
	}

	line("BEGIN:VCARD")
	line("VERSION:3.0")
	line("FN:", vcardEscaper.Replace(v.DisplayName))
	line("N:", vcardEscaper.Replace(deref(v.User.LastName)), ";", vcardEscaper.Replace(deref(v.User.FirstName)), ";;;")
	for _, s := range v.Sections {
		for _, ch := range s.Channels {
			value := vcardEscaper.Replace(strings.TrimSpace(ch.Value))
			switch ch.Type {
			case models.ChannelPhone:
				line("TEL:", value)
			case models.ChannelEmail:
				line("EMAIL:", value)
			case models.ChannelWebsite:
				if ch.Href != UnsafeLink {
					line("URL:", ch.Href)
				}
			default:
				line("X-", strings.ToUpper(string(ch.Type)), ":", value)
			}
		}
	}
	if bio := deref(v.User.Bio); bio != "" {
		line("NOTE:", vcardEscaper.Replace(bio))
	}
	line("END:VCARD")
	return b.String()
}
