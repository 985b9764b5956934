package rocketclient

import (
	"context"
	"strconv"

	"github.com/zyfking/rocketroom/roomview"
)

// wireRoom is the room document as the server sends it.
type wireRoom struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Type         string          `json:"t"`
	ReadOnly     bool            `json:"ro"`
	Favorite     bool            `json:"f"`
	Archived     bool            `json:"archived"`
	Blocked      bool            `json:"blocked"`
	Blocker      bool            `json:"blocker"`
	Broadcast    bool            `json:"broadcast"`
	Alert        bool            `json:"alert"`
	Unread       int             `json:"unread"`
	UserMentions int             `json:"userMentions"`
	LastSeen     int64           `json:"ls"`
	Roles        []roomview.Role `json:"roles"`
	Muted        []string        `json:"muted"`
}

func (w wireRoom) toRecord() roomview.RoomRecord {
	return roomview.RoomRecord{
		RID:          w.ID,
		Name:         w.Name,
		Type:         w.Type,
		ReadOnly:     w.ReadOnly,
		Favorite:     w.Favorite,
		Archived:     w.Archived,
		Blocked:      w.Blocked,
		Blocker:      w.Blocker,
		Broadcast:    w.Broadcast,
		Alert:        w.Alert,
		Unread:       w.Unread,
		UserMentions: w.UserMentions,
		LastSeen:     w.LastSeen,
		Roles:        w.Roles,
		Muted:        w.Muted,
	}
}

// GetRoomInfo fetches room metadata. An inaccessible room is not an error:
// the result carries Success=false and the caller falls back to preview
// mode.
func (c *Client) GetRoomInfo(ctx context.Context, rid string) (roomview.RoomInfoResult, error) {
	var out struct {
		Success bool     `json:"success"`
		Room    wireRoom `json:"room"`
	}

	err := c.doGet(ctx, c.apiURL("rooms.info?"+query(map[string]string{"roomId": rid})), &out)
	if err != nil {
		return roomview.RoomInfoResult{}, err
	}

	if !out.Success {
		c.logger.Debugf("rooms.info: no access to %s", rid)

		return roomview.RoomInfoResult{}, nil
	}

	return roomview.RoomInfoResult{Success: true, Room: out.Room.toRecord()}, nil
}

func (c *Client) JoinRoom(ctx context.Context, rid string) (bool, error) {
	var out struct {
		Success bool `json:"success"`
	}

	err := c.doPost(ctx, c.apiURL("channels.join"), map[string]string{"roomId": rid}, &out)
	if err != nil {
		return false, err
	}

	return out.Success, nil
}

// ToggleFavorite is fire-and-forget from the view's perspective: the cache
// listener picks up the new flag once the server pushes it back.
func (c *Client) ToggleFavorite(ctx context.Context, rid string, want bool) error {
	return c.doPost(ctx, c.apiURL("rooms.favorite"), map[string]interface{}{
		"roomId":   rid,
		"favorite": want,
	}, nil)
}

// LoadMissedMessages pulls everything newer than the room's last-seen
// timestamp back into the local message store.
func (c *Client) LoadMissedMessages(ctx context.Context, room roomview.RoomRecord) error {
	var out struct {
		Success bool          `json:"success"`
		Result  []wireMessage `json:"result"`
	}

	err := c.doGet(ctx, c.apiURL("chat.syncMessages?"+query(map[string]string{
		"roomId":     room.RID,
		"lastUpdate": strconv.FormatInt(room.LastSeen, 10),
	})), &out)
	if err != nil {
		return err
	}

	c.logger.Debugf("chat.syncMessages: %d missed messages for %s", len(out.Result), room.RID)

	return nil
}

// ReadMessages marks the room read on the server.
func (c *Client) ReadMessages(ctx context.Context, rid string) error {
	return c.doPost(ctx, c.apiURL("subscriptions.read"), map[string]string{"rid": rid}, nil)
}
