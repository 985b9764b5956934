package rocketclient

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/zyfking/rocketroom/roomview"
)

// wireMessage is the message document as the server sends it; ts and
// _updatedAt are epoch milliseconds.
type wireMessage struct {
	ID        string              `json:"_id"`
	RID       string              `json:"rid"`
	Msg       string              `json:"msg"`
	TS        int64               `json:"ts"`
	Reactions map[string][]string `json:"reactions"`
	UpdatedAt int64               `json:"_updatedAt"`
}

func (w wireMessage) toRecord() roomview.MessageRecord {
	return roomview.MessageRecord{
		ID:        w.ID,
		RID:       w.RID,
		Msg:       w.Msg,
		TS:        w.TS,
		Status:    roomview.StatusSent,
		Reactions: w.Reactions,
		UpdatedAt: w.UpdatedAt,
	}
}

// historyEndpoint maps the room type to its history resource.
func historyEndpoint(roomType string) string {
	switch roomType {
	case roomview.RoomTypeDirect:
		return "im.history"
	case roomview.RoomTypePrivate:
		return "groups.history"
	default:
		return "channels.history"
	}
}

// LoadMessagesForRoom fetches one page of history older than q.Latest,
// newest first. The server returns at most PageSize messages; fewer means
// there is no older history.
func (c *Client) LoadMessagesForRoom(ctx context.Context, q roomview.LoadMessagesQuery) ([]roomview.MessageRecord, error) {
	var out struct {
		Success  bool          `json:"success"`
		Messages []wireMessage `json:"messages"`
	}

	err := c.doGet(ctx, c.apiURL(historyEndpoint(q.Type)+"?"+query(map[string]string{
		"roomId": q.RID,
		"latest": strconv.FormatInt(q.Latest, 10),
		"count":  strconv.Itoa(c.PageSize),
	})), &out)
	if err != nil {
		return nil, err
	}

	msgs := make([]roomview.MessageRecord, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, m.toRecord())
	}

	c.logger.Debugf("%s: %d messages for %s before %d", historyEndpoint(q.Type), len(msgs), q.RID, q.Latest)

	return msgs, nil
}

// SendMessage posts a message with a client-generated id so a retry after
// a broken connection cannot double-post.
func (c *Client) SendMessage(ctx context.Context, rid string, msg string) error {
	return c.doPost(ctx, c.apiURL("chat.sendMessage"), map[string]interface{}{
		"message": map[string]string{
			"_id": uuid.New().String(),
			"rid": rid,
			"msg": msg,
		},
	}, nil)
}

// SetReaction toggles the emoji reaction on a message.
func (c *Client) SetReaction(ctx context.Context, shortcode string, messageID string) error {
	return c.doPost(ctx, c.apiURL("chat.react"), map[string]string{
		"emoji":     shortcode,
		"messageId": messageID,
	}, nil)
}
