package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohits-web03/humandns/internal/models"
)

func uptr(v uint) *uint { return &v }

func TestGroupChannelsEmpty(t *testing.T) {
	got := GroupChannels(nil, []models.Group{{ID: 1, Name: "Work"}})
	assert.Empty(t, got)
}

func TestGroupChannelsCollapsesUngrouped(t *testing.T) {
	channels := []models.Channel{
		{ID: 1, GroupID: nil},
		{ID: 2, GroupID: nil},
	}
	got := GroupChannels(channels, nil)
	require.Len(t, got, 1)
	assert.Equal(t, UngroupedLabel, got[0].Name)
	assert.Nil(t, got[0].GroupID)
	assert.Len(t, got[0].Channels, 2)
}

func TestGroupChannelsOrderAndDanglingGroups(t *testing.T) {
	groups := []models.Group{{ID: 10, Name: "Work"}, {ID: 20, Name: "Social"}}
	channels := []models.Channel{
		{ID: 1, GroupID: uptr(20)},
		{ID: 2, GroupID: uptr(99)}, // group was deleted
		{ID: 3, GroupID: uptr(10)},
		{ID: 4, GroupID: nil},
		{ID: 5, GroupID: uptr(20)},
	}

	got := GroupChannels(channels, groups)
	require.Len(t, got, 3)

	assert.Equal(t, "Social", got[0].Name)
	assert.Equal(t, uint(20), *got[0].GroupID)
	assert.Equal(t, []uint{1, 5}, channelIDs(got[0].Channels))

	assert.Equal(t, UngroupedLabel, got[1].Name)
	assert.Equal(t, []uint{2, 4}, channelIDs(got[1].Channels))

	assert.Equal(t, "Work", got[2].Name)
	assert.Equal(t, []uint{3}, channelIDs(got[2].Channels))
}

func TestGroupChannelsMergesUserGroupNamedLikeSentinel(t *testing.T) {
	groups := []models.Group{{ID: 1, Name: UngroupedLabel}, {ID: 2, Name: "Work"}}
	channels := []models.Channel{{ID: 1, GroupID: uptr(1)}, {ID: 2, GroupID: uptr(2)}, {ID: 3}, {ID: 4, GroupID: uptr(1)}}

	got := GroupChannels(channels, groups)
	require.Len(t, got, 2)
	assert.Equal(t, UngroupedLabel, got[0].Name)
	assert.Nil(t, got[0].GroupID)
	assert.Equal(t, []uint{1, 3, 4}, channelIDs(got[0].Channels))
	assert.Equal(t, "Work", got[1].Name)
}

func channelIDs(chs []models.Channel) []uint {
	ids := make([]uint, 0, len(chs))
	for _, ch := range chs {
		ids = append(ids, ch.ID)
	}
	return ids
}
