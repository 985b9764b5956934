package roomview

import (
	"context"
)

// Room type tags as stored by the server.
const (
	RoomTypeDirect   = "d"
	RoomTypeChannel  = "c"
	RoomTypePrivate  = "p"
	RoomTypeLivechat = "l"
)

// Role is a per-user role entry on a room record.
type Role struct {
	User  string `json:"user"`
	Value string `json:"value"`
}

// RoomRecord is the cached representation of a room's metadata and
// membership flags. RID never changes after creation; everything else may
// be rewritten by the cache at any time, so consumers work on value copies.
type RoomRecord struct {
	RID          string   `json:"rid"`
	Name         string   `json:"name"`
	Type         string   `json:"t"`
	ReadOnly     bool     `json:"ro"`
	Favorite     bool     `json:"f"`
	Archived     bool     `json:"archived"`
	Blocked      bool     `json:"blocked"`
	Blocker      bool     `json:"blocker"`
	Broadcast    bool     `json:"broadcast"`
	Alert        bool     `json:"alert"`
	Unread       int      `json:"unread"`
	UserMentions int      `json:"userMentions"`
	LastSeen     int64    `json:"ls"`
	Roles        []Role   `json:"roles"`
	Muted        []string `json:"muted"`
}

// UserContext identifies the authenticated user for the lifetime of one
// view instance.
type UserContext struct {
	ID       string
	Username string
	Token    string
}

type MessageStatus int

const (
	StatusPending MessageStatus = iota
	StatusSent
	StatusFailed
)

// MessageRecord is owned by the message list store; the controller reads
// these but never mutates them.
type MessageRecord struct {
	ID        string              `json:"_id"`
	RID       string              `json:"rid"`
	Msg       string              `json:"msg"`
	TS        int64               `json:"ts"`
	Status    MessageStatus       `json:"status"`
	Reactions map[string][]string `json:"reactions"`
	UpdatedAt int64               `json:"_updatedAt"`
}

// ViewState is the state the rendering layer paints from. Mutated only by
// the controller, handed out by value.
type ViewState struct {
	Loaded      bool
	Joined      bool
	Room        RoomRecord
	End         bool
	LoadingMore bool
}

// Props are externally owned inputs the controller reacts to but does not
// compute: the action sheets' visibility, the message a picker was opened
// for and whether the app is foregrounded.
type Props struct {
	ShowActions      bool
	ShowErrorActions bool
	Foreground       bool
	ActionMessage    *MessageRecord
}

// CacheHandle is a live view over the zero-or-one room records matching a
// rid. Listeners fire on every insert, update or removal of the record;
// each notification carries the full current snapshot, never a diff.
type CacheHandle interface {
	AddListener(fn func())
	RemoveAllListeners()
	Snapshot() []RoomRecord
}

// RoomCache produces subscriptions over persisted room records.
type RoomCache interface {
	Subscribe(rid string) CacheHandle
}

// RoomInfoResult is the soft-failure result of GetRoomInfo: an
// inaccessible room yields Success=false with a nil error.
type RoomInfoResult struct {
	Success bool
	Room    RoomRecord
}

// LoadMessagesQuery asks for a page of history older than Latest.
type LoadMessagesQuery struct {
	RID    string
	Type   string
	Latest int64
}

// Gateway is the remote messaging service as seen by the controller. Every
// operation is an independent request-response exchange; none depends on
// ordering relative to another.
type Gateway interface {
	GetRoomInfo(ctx context.Context, rid string) (RoomInfoResult, error)
	JoinRoom(ctx context.Context, rid string) (bool, error)
	ToggleFavorite(ctx context.Context, rid string, want bool) error
	LoadMissedMessages(ctx context.Context, room RoomRecord) error
	ReadMessages(ctx context.Context, rid string) error
	LoadMessagesForRoom(ctx context.Context, q LoadMessagesQuery) ([]MessageRecord, error)
	SendMessage(ctx context.Context, rid string, msg string) error
	SetReaction(ctx context.Context, shortcode string, messageID string) error
}

// Dispatcher carries the cross-cutting intents out of the controller. It
// replaces a process-wide store: the owner wires it in at construction.
type Dispatcher interface {
	OpenRoom(room RoomRecord)
	// SetLastOpen records where "unread messages start here" should be
	// drawn; nil clears the marker.
	SetLastOpen(ts *int64)
	ToggleReactionPicker(message *MessageRecord)
	ActionsShow(message MessageRecord)
	CloseRoom()
}

// Icon identifiers for header affordances.
const (
	IconMore        = "more"
	IconStar        = "star"
	IconStarOutline = "star-outline"
)

// Header action ids received back as invocation events.
const (
	ActionMore = "more"
	ActionStar = "star"
)

// HeaderAction is one named affordance with its icon.
type HeaderAction struct {
	ID   string
	Icon string
}

// HeaderBar receives the ordered affordance list whenever it changes.
type HeaderBar interface {
	SetActions(actions []HeaderAction)
}

// Renderer is told to repaint only when a gated field changed.
type Renderer interface {
	Render(state ViewState, props Props)
}

// Navigator pushes sibling views. The navigation layer owns their
// registration, including any register-on-first-use memoization.
type Navigator interface {
	PushRoomActions(rid string)
}

// MessageStore receives pages of older history for the message list.
type MessageStore interface {
	Append(msgs []MessageRecord)
}
