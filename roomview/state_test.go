package roomview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsUpdateIgnoresUngatedFields(t *testing.T) {
	prev := ViewState{Loaded: true, Joined: true, Room: RoomRecord{RID: "R1", Name: "general", Unread: 0}}

	next := prev
	next.Room.Name = "renamed"
	next.Room.Unread = 7
	next.Room.LastSeen = 12345
	next.Room.Alert = true
	next.Room.Muted = []string{"bob"}

	assert.False(t, needsUpdate(prev, next, Props{}, Props{}))
}

func TestNeedsUpdateGatedFields(t *testing.T) {
	base := ViewState{Loaded: true, Joined: true, Room: RoomRecord{RID: "R1"}}

	tests := []struct {
		desc   string
		mutate func(*ViewState)
	}{
		{"ro", func(s *ViewState) { s.Room.ReadOnly = true }},
		{"f", func(s *ViewState) { s.Room.Favorite = true }},
		{"blocked", func(s *ViewState) { s.Room.Blocked = true }},
		{"blocker", func(s *ViewState) { s.Room.Blocker = true }},
		{"archived", func(s *ViewState) { s.Room.Archived = true }},
		{"loaded", func(s *ViewState) { s.Loaded = false }},
		{"joined", func(s *ViewState) { s.Joined = false }},
		{"end", func(s *ViewState) { s.End = true }},
		{"loadingMore", func(s *ViewState) { s.LoadingMore = true }},
	}

	for _, tc := range tests {
		next := base
		tc.mutate(&next)
		assert.True(t, needsUpdate(base, next, Props{}, Props{}), tc.desc)
	}
}

func TestNeedsUpdateGatedProps(t *testing.T) {
	state := ViewState{Loaded: true}

	assert.True(t, needsUpdate(state, state, Props{}, Props{ShowActions: true}))
	assert.True(t, needsUpdate(state, state, Props{}, Props{ShowErrorActions: true}))
	assert.True(t, needsUpdate(state, state, Props{}, Props{Foreground: true}))

	// the picker's target message is not part of the gate
	assert.False(t, needsUpdate(state, state, Props{}, Props{ActionMessage: &MessageRecord{ID: "m1"}}))
}
