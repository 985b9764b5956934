package roomview

import (
	"context"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/desertbit/timer"
)

// snapshotPhase tracks whether this mount has already published a room with
// a known id. The first published snapshot triggers the openRoom and
// setLastOpen intents; later notifications must not.
type snapshotPhase int

const (
	snapshotNotYetSeen snapshotPhase = iota
	snapshotSeen
)

// Deps are the collaborators wired in at construction. Cache, Gateway and
// Dispatch are required; the rest may be nil when the owner has no use for
// them.
type Deps struct {
	Cache     RoomCache
	Gateway   Gateway
	Dispatch  Dispatcher
	Header    HeaderBar
	Renderer  Renderer
	Navigator Navigator
	Messages  MessageStore
}

type Config struct {
	// PageSize is the history fetch page; results below it mark the end
	// of history. Zero means DefaultPageSize.
	PageSize int
	// PaginateDebounce delays a near-end fetch so that a scroll burst
	// issues one request. Zero fetches inline.
	PaginateDebounce time.Duration
}

// Controller keeps one room view synchronized between the cache and the
// gateway across the view's lifecycle: mount, cache-driven updates,
// user actions, unmount.
type Controller struct {
	sync.Mutex

	rid  string
	user UserContext
	deps Deps
	cfg  Config

	ctx    context.Context
	handle CacheHandle
	pag    *paginator

	state ViewState
	props Props
	phase snapshotPhase

	mounted   bool
	unmounted bool
	closeOnce sync.Once

	debounce *timer.Timer
	pending  LoadMessagesQuery
}

func NewController(rid string, user UserContext, deps Deps, cfg Config) *Controller {
	return &Controller{
		rid:  rid,
		user: user,
		deps: deps,
		cfg:  cfg,
		ctx:  context.Background(),
		pag:  newPaginator(cfg.PageSize),
	}
}

// Mount performs the initial load: when the cache has no record for the
// room the gateway is asked for a minimal seed, then the cache
// subscription takes over. Loaded is set unconditionally, a failed fetch
// just leaves the room in preview mode.
func (c *Controller) Mount(ctx context.Context) {
	c.Lock()
	if c.mounted || c.unmounted {
		c.Unlock()
		return
	}

	c.mounted = true
	c.ctx = ctx
	c.Unlock()

	handle := c.deps.Cache.Subscribe(c.rid)
	snap := handle.Snapshot()

	c.Lock()
	c.handle = handle
	c.state.Joined = len(snap) > 0
	c.Unlock()

	if len(snap) == 0 && c.rid != "" {
		res, err := c.deps.Gateway.GetRoomInfo(ctx, c.rid)
		switch {
		case err != nil:
			logger.Errorf("getRoomInfo: %s", err)
		case res.Success:
			c.Lock()
			c.state.Room = RoomRecord{RID: res.Room.RID, Type: res.Room.Type, Name: res.Room.Name}
			c.phase = snapshotSeen
			c.Unlock()
		}
	}

	// registration invokes updateRoom once with the current snapshot
	handle.AddListener(c.updateRoom)

	c.Lock()
	prevState, prevProps := c.state, c.props
	c.state.Loaded = true
	c.Unlock()

	c.publish(prevState, prevProps)
}

// Unmount detaches the cache listener, stops any pending pagination
// debounce and emits closeRoom exactly once. Already-dispatched gateway
// calls are not cancelled; their settlement is dropped.
func (c *Controller) Unmount() {
	c.Lock()
	c.unmounted = true
	handle := c.handle
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.Unlock()

	if handle != nil {
		handle.RemoveAllListeners()
	}

	c.closeOnce.Do(c.deps.Dispatch.CloseRoom)
}

// State returns the current view state by value.
func (c *Controller) State() ViewState {
	c.Lock()
	defer c.Unlock()

	return c.state
}

// FooterMode tells the rendering layer which footer to draw for the
// current state and user.
func (c *Controller) FooterMode() FooterMode {
	c.Lock()
	defer c.Unlock()

	return FooterModeFor(c.state, c.user)
}

// SetProps feeds in the externally owned inputs. A transition into the
// foreground triggers the missed-message and read-receipt sync as
// best-effort calls.
func (c *Controller) SetProps(next Props) {
	c.Lock()
	if c.unmounted {
		c.Unlock()
		return
	}

	prevState, prevProps := c.state, c.props
	c.props = next
	room := c.state.Room
	c.Unlock()

	if next.Foreground && !prevProps.Foreground {
		go c.resumeSync(room)
	}

	c.publish(prevState, prevProps)
}

func (c *Controller) resumeSync(room RoomRecord) {
	if err := c.deps.Gateway.LoadMissedMessages(c.ctx, room); err != nil {
		logger.Errorf("loadMissedMessages: %s", err)
	}

	if err := c.deps.Gateway.ReadMessages(c.ctx, room.RID); err != nil {
		logger.Errorf("readMessages: %s", err)
	}
}

// updateRoom handles a cache notification. Every notification carries the
// full authoritative snapshot; absence of the record means the room was
// left, not an error.
func (c *Controller) updateRoom() {
	c.Lock()
	if c.unmounted || c.handle == nil {
		c.Unlock()
		return
	}

	snap := c.handle.Snapshot()
	logger.Tracef("cache notification %s", spew.Sdump(snap))

	prevState, prevProps := c.state, c.props

	var (
		first bool
		gone  bool
	)

	if len(snap) > 0 {
		first = c.phase == snapshotNotYetSeen
		c.state.Room = snap[0]
		c.phase = snapshotSeen
	} else {
		gone = true
		c.state.Joined = false
	}

	room := c.state.Room
	c.Unlock()

	switch {
	case first:
		c.deps.Dispatch.OpenRoom(room)

		if room.Alert || room.Unread > 0 || room.UserMentions > 0 {
			ts := room.LastSeen
			c.deps.Dispatch.SetLastOpen(&ts)
		} else {
			c.deps.Dispatch.SetLastOpen(nil)
		}
	case gone:
		// republish the last known room so collaborators can clear up
		c.deps.Dispatch.OpenRoom(room)
	}

	if prevState.Room.Favorite != room.Favorite && c.deps.Header != nil {
		c.deps.Header.SetActions(headerActions(room))
	}

	c.publish(prevState, prevProps)
}

// OnEndReached is called by the list collaborator when scroll nears the
// oldest loaded row. A call with no anchor, while a fetch is in flight or
// once the history is exhausted is a no-op.
func (c *Controller) OnEndReached(anchor *MessageRecord) {
	if anchor == nil {
		return
	}

	c.Lock()
	if c.unmounted || !c.pag.tryBegin() {
		c.Unlock()
		return
	}

	prevState, prevProps := c.state, c.props
	c.state.LoadingMore = true
	c.pending = LoadMessagesQuery{RID: c.rid, Type: c.state.Room.Type, Latest: anchor.TS}

	if c.cfg.PaginateDebounce > 0 {
		if c.debounce == nil {
			c.debounce = timer.AfterFunc(c.cfg.PaginateDebounce, c.flushPaginate)
		} else {
			c.debounce.Reset(c.cfg.PaginateDebounce)
		}

		c.Unlock()
		c.publish(prevState, prevProps)

		return
	}
	c.Unlock()

	c.publish(prevState, prevProps)
	c.flushPaginate()
}

func (c *Controller) flushPaginate() {
	c.Lock()
	if c.unmounted {
		c.Unlock()
		return
	}

	q := c.pending
	c.Unlock()

	msgs, err := c.deps.Gateway.LoadMessagesForRoom(c.ctx, q)

	c.Lock()
	if c.unmounted {
		c.Unlock()
		return
	}

	prevState, prevProps := c.state, c.props

	if err != nil {
		c.pag.fail()
	} else {
		c.pag.finish(len(msgs))
	}

	c.state.LoadingMore = false
	c.state.End = c.pag.end
	c.Unlock()

	if err != nil {
		logger.Errorf("onEndReached: %s", err)
	} else if len(msgs) > 0 && c.deps.Messages != nil {
		c.deps.Messages.Append(msgs)
	}

	c.publish(prevState, prevProps)
}

// SendMessage forwards to the gateway; settlement clears the last-open
// marker so the unread banner goes away.
func (c *Controller) SendMessage(text string) {
	if err := c.deps.Gateway.SendMessage(c.ctx, c.rid, text); err != nil {
		logger.Errorf("sendMessage: %s", err)
	}

	c.deps.Dispatch.SetLastOpen(nil)
}

// JoinRoom leaves preview mode. On failure the view stays in preview.
func (c *Controller) JoinRoom() {
	ok, err := c.deps.Gateway.JoinRoom(c.ctx, c.rid)
	if err != nil {
		logger.Errorf("joinRoom: %s", err)
		return
	}

	if !ok {
		return
	}

	c.Lock()
	if c.unmounted {
		c.Unlock()
		return
	}

	prevState, prevProps := c.state, c.props
	c.state.Joined = true
	c.Unlock()

	c.publish(prevState, prevProps)
}

// OnMessageLongPress opens the per-message action menu.
func (c *Controller) OnMessageLongPress(message MessageRecord) {
	c.deps.Dispatch.ActionsShow(message)
}

// OnReactionPress sets a reaction. Without an explicit message id it
// applies to the message the reaction picker was opened for and closes the
// picker; on error the picker is left as it is.
func (c *Controller) OnReactionPress(shortcode, messageID string) {
	if messageID == "" {
		c.Lock()
		target := c.props.ActionMessage
		c.Unlock()

		if target == nil {
			return
		}

		if err := c.deps.Gateway.SetReaction(c.ctx, shortcode, target.ID); err != nil {
			logger.Errorf("onReactionPress: %s", err)
			return
		}

		c.deps.Dispatch.ToggleReactionPicker(nil)

		return
	}

	if err := c.deps.Gateway.SetReaction(c.ctx, shortcode, messageID); err != nil {
		logger.Errorf("onReactionPress: %s", err)
	}
}

// OnHeaderAction dispatches a named header button press.
func (c *Controller) OnHeaderAction(id string) {
	c.Lock()
	room := c.state.Room
	c.Unlock()

	switch id {
	case ActionMore:
		if c.deps.Navigator != nil {
			c.deps.Navigator.PushRoomActions(c.rid)
		}
	case ActionStar:
		if err := c.deps.Gateway.ToggleFavorite(c.ctx, c.rid, !room.Favorite); err != nil {
			// no rollback, the cache listener is the source of truth
			logger.Errorf("toggleFavorite: %s", err)
		}
	}
}

// headerActions is the affordance list for the current room: the star
// reflecting the favorite flag, preceded by "more" for every room type
// except livechat.
func headerActions(room RoomRecord) []HeaderAction {
	star := HeaderAction{ID: ActionStar, Icon: IconStarOutline}
	if room.Favorite {
		star.Icon = IconStar
	}

	actions := []HeaderAction{}
	if room.Type != RoomTypeLivechat {
		actions = append(actions, HeaderAction{ID: ActionMore, Icon: IconMore})
	}

	return append(actions, star)
}

func (c *Controller) publish(prevState ViewState, prevProps Props) {
	if c.deps.Renderer == nil {
		return
	}

	c.Lock()
	nextState, nextProps := c.state, c.props
	c.Unlock()

	if needsUpdate(prevState, nextState, prevProps, nextProps) {
		c.deps.Renderer.Render(nextState, nextProps)
	}
}
