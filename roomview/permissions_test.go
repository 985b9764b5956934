package roomview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOwner(t *testing.T) {
	assert.False(t, IsOwner(RoomRecord{}))
	assert.False(t, IsOwner(RoomRecord{Roles: []Role{{User: "bob", Value: "moderator"}}}))
	assert.True(t, IsOwner(RoomRecord{Roles: []Role{{User: "bob", Value: "owner"}}}))
	assert.True(t, IsOwner(RoomRecord{Roles: []Role{{User: "alice", Value: "moderator"}, {User: "bob", Value: "owner"}}}))
}

func TestIsMuted(t *testing.T) {
	bob := UserContext{ID: "u1", Username: "bob"}

	assert.False(t, IsMuted(RoomRecord{}, bob))
	assert.False(t, IsMuted(RoomRecord{Muted: []string{"alice"}}, bob))
	assert.True(t, IsMuted(RoomRecord{Muted: []string{"alice", "bob"}}, bob))
}

func TestIsReadOnly(t *testing.T) {
	bob := UserContext{ID: "u1", Username: "bob"}

	tests := []struct {
		desc string
		room RoomRecord
		want bool
	}{
		{
			desc: "muted user in ro room",
			room: RoomRecord{ReadOnly: true, Muted: []string{"bob"}},
			want: true,
		},
		{
			desc: "muted owner in ro room",
			room: RoomRecord{ReadOnly: true, Muted: []string{"bob"}, Roles: []Role{{User: "bob", Value: "owner"}}},
			want: false,
		},
		{
			desc: "muted user in writable room",
			room: RoomRecord{Muted: []string{"bob"}},
			want: false,
		},
		{
			desc: "unmuted user in ro room",
			room: RoomRecord{ReadOnly: true},
			want: false,
		},
	}

	for _, tc := range tests {
		got := IsReadOnly(tc.room, bob)
		assert.Equal(t, tc.want, got, tc.desc)

		// read-only always implies the ro flag
		if got {
			assert.True(t, tc.room.ReadOnly, tc.desc)
		}
	}
}

func TestIsBlocked(t *testing.T) {
	tests := []struct {
		desc string
		room RoomRecord
		want bool
	}{
		{"clean direct room", RoomRecord{Type: "d"}, false},
		{"blocked direct room", RoomRecord{Type: "d", Blocked: true}, true},
		{"blocker direct room", RoomRecord{Type: "d", Blocker: true}, true},
		{"blocked channel", RoomRecord{Type: "c", Blocked: true, Blocker: true}, false},
		{"blocked private group", RoomRecord{Type: "p", Blocked: true}, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, IsBlocked(tc.room), tc.desc)
	}
}

func TestFooterModeFor(t *testing.T) {
	bob := UserContext{ID: "u1", Username: "bob"}

	tests := []struct {
		desc  string
		state ViewState
		want  FooterMode
	}{
		{
			desc:  "preview mode",
			state: ViewState{Loaded: true, Joined: false, Room: RoomRecord{Type: "c"}},
			want:  FooterJoin,
		},
		{
			desc:  "archived room",
			state: ViewState{Loaded: true, Joined: true, Room: RoomRecord{Type: "c", Archived: true}},
			want:  FooterReadOnly,
		},
		{
			desc:  "muted in ro room",
			state: ViewState{Loaded: true, Joined: true, Room: RoomRecord{Type: "c", ReadOnly: true, Muted: []string{"bob"}}},
			want:  FooterReadOnly,
		},
		{
			desc:  "blocked dm",
			state: ViewState{Loaded: true, Joined: true, Room: RoomRecord{Type: "d", Blocked: true}},
			want:  FooterBlocked,
		},
		{
			desc:  "plain joined room",
			state: ViewState{Loaded: true, Joined: true, Room: RoomRecord{Type: "c"}},
			want:  FooterComposer,
		},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FooterModeFor(tc.state, bob), tc.desc)
	}
}
