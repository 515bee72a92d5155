package profile

import "github.com/rohits-web03/humandns/internal/models"

// UngroupedLabel names the section holding channels without a known group.
const UngroupedLabel = "Other"

type Section struct {
	Name string `json:"name"`
	// GroupID is nil when the section holds ungrouped channels.
	GroupID  *uint            `json:"group_id"`
	Channels []models.Channel `json:"channels"`
}

// GroupChannels splits channels into sections keyed by label. Sections appear
// in the order their first channel appears; channels keep input order.
// Channels whose group is unset or unknown share one UngroupedLabel section,
// which also takes in a user group of that name.
func GroupChannels(channels []models.Channel, groups []models.Group) []Section {
	byID := make(map[uint]models.Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	sections := []Section{}
	index := make(map[string]int)
	for _, ch := range channels {
		name, groupID := UngroupedLabel, (*uint)(nil)
		if ch.GroupID != nil {
			if g, ok := byID[*ch.GroupID]; ok {
				id := g.ID
				name, groupID = g.Name, &id
			}
		}
		i, ok := index[name]
		if !ok {
			i = len(sections)
			index[name] = i
			sections = append(sections, Section{Name: name, GroupID: groupID})
		} else if groupID == nil {
			sections[i].GroupID = nil
		}
		sections[i].Channels = append(sections[i].Channels, ch)
	}
	return sections
}
