package roomview

const ownerRole = "owner"

// IsOwner reports whether the room's role entries carry the owner role.
func IsOwner(room RoomRecord) bool {
	for _, r := range room.Roles {
		if r.Value == ownerRole {
			return true
		}
	}

	return false
}

// IsMuted reports whether the user is on the room's mute list.
func IsMuted(room RoomRecord, user UserContext) bool {
	for _, name := range room.Muted {
		if name == user.Username {
			return true
		}
	}

	return false
}

// IsReadOnly reports whether posting is blocked for the user. A room's ro
// flag alone does not block: the user must also be muted, and owners are
// never blocked. Product has been asked about this rule; until that is
// resolved we keep the server's observable behavior.
func IsReadOnly(room RoomRecord, user UserContext) bool {
	return room.ReadOnly && IsMuted(room, user) && !IsOwner(room)
}

// IsBlocked reports whether either side of a direct room has blocked the
// other. Only direct rooms carry block semantics.
func IsBlocked(room RoomRecord) bool {
	return room.Type == RoomTypeDirect && (room.Blocked || room.Blocker)
}

// FooterMode tells the rendering layer which footer to draw below the
// message list.
type FooterMode int

const (
	FooterJoin FooterMode = iota
	FooterReadOnly
	FooterBlocked
	FooterComposer
)

// FooterModeFor derives the footer from the current view state: preview
// mode wins, then archived/read-only, then blocked, else the composer.
func FooterModeFor(state ViewState, user UserContext) FooterMode {
	switch {
	case !state.Joined:
		return FooterJoin
	case state.Room.Archived || IsReadOnly(state.Room, user):
		return FooterReadOnly
	case IsBlocked(state.Room):
		return FooterBlocked
	}

	return FooterComposer
}
