package profile

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rohits-web03/humandns/internal/models"
)

// ChannelView is a channel ready to render, with its resolved link.
type ChannelView struct {
	models.Channel
	Href string `json:"href"`
}

type SectionView struct {
	Name     string        `json:"name"`
	GroupID  *uint         `json:"group_id"`
	Channels []ChannelView `json:"channels"`
}

// View is the render-ready profile page.
type View struct {
	User        models.PublicUser `json:"user"`
	DisplayName string            `json:"display_name"`
	Sections    []SectionView     `json:"sections"`
	Groups      []models.Group    `json:"groups"`
	// Empty reports that no channel is visible to the viewer.
	Empty   bool `json:"empty"`
	IsOwner bool `json:"is_owner"`
}

// Assemble builds the view of a user's profile. Visitors only see public
// channels; the owner sees everything. Channels are ordered by sort order then
// id, so the result does not depend on the order the store returned them in.
func Assemble(user models.User, channels []models.Channel, groups []models.Group, viewerIsOwner bool) View {
	visible := make([]models.Channel, 0, len(channels))
	for _, ch := range channels {
		if viewerIsOwner || ch.IsPublic {
			visible = append(visible, ch)
		}
	}
	SortChannels(visible)

	sections := GroupChannels(visible, groups)
	views := make([]SectionView, 0, len(sections))
	for _, s := range sections {
		sv := SectionView{Name: s.Name, GroupID: s.GroupID, Channels: make([]ChannelView, 0, len(s.Channels))}
		for _, ch := range s.Channels {
			sv.Channels = append(sv.Channels, ChannelView{Channel: ch, Href: ChannelLink(ch.Type, ch.Value)})
		}
		views = append(views, sv)
	}

	sortedGroups := slices.Clone(groups)
	SortGroups(sortedGroups)
	if sortedGroups == nil {
		sortedGroups = []models.Group{}
	}

	return View{
		User:        user.Public(),
		DisplayName: DisplayName(user),
		Sections:    views,
		Groups:      sortedGroups,
		Empty:       len(visible) == 0,
		IsOwner:     viewerIsOwner,
	}
}

// SortChannels orders channels by sort order, then id.
func SortChannels(channels []models.Channel) {
	slices.SortStableFunc(channels, func(a, b models.Channel) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.ID, b.ID))
	})
}

// SortGroups orders groups by sort order, then name.
func SortGroups(groups []models.Group) {
	slices.SortStableFunc(groups, func(a, b models.Group) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), strings.Compare(a.Name, b.Name))
	})
}
