package rocketclient

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
)

// streamEvent is one realtime notification about a room the user is
// subscribed to.
type streamEvent struct {
	ID   string   `json:"_id"`
	Type string   `json:"type"`
	Room wireRoom `json:"room"`
	RID  string   `json:"rid"`
}

// Listen connects the realtime stream and feeds room events through the
// OnRoomChanged/OnRoomDeleted callbacks until ctx is done. Connection
// drops reconnect with backoff. A call to this method is blocking.
func (c *Client) Listen(ctx context.Context) {
	b := &backoff.Backoff{
		Min:    time.Second,
		Max:    5 * time.Minute,
		Jitter: true,
	}

	for {
		conn, err := c.wsConnect(ctx)
		if err != nil {
			d := b.Duration()
			c.logger.Debugf("WS: %s, reconnecting in %s", err, d)

			select {
			case <-ctx.Done():
				return
			case <-time.After(d):
			}

			continue
		}

		b.Reset()
		c.logger.Debug("WS: connected")

		c.wsReceiver(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return
		}
	}
}

func (c *Client) wsConnect(ctx context.Context) (*websocket.Conn, error) {
	wsScheme := "wss://"
	if c.NoTLS {
		wsScheme = "ws://"
	}

	dialer := &websocket.Dialer{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: c.SkipTLSVerify, //nolint:gosec
		},
		Proxy: http.ProxyFromEnvironment,
	}

	header := http.Header{}
	header.Set("X-Auth-Token", c.Token)
	header.Set("X-User-Id", c.UserID)

	conn, _, err := dialer.DialContext(ctx, wsScheme+c.Server+"/websocket", header) //nolint:bodyclose

	return conn, err
}

func (c *Client) wsReceiver(ctx context.Context, conn *websocket.Conn) {
	for {
		var ev streamEvent
		if err := conn.ReadJSON(&ev); err != nil {
			c.logger.Debugf("WS read: %s", err)
			return
		}

		if ctx.Err() != nil {
			return
		}

		// the server replays recent events after a reconnect
		if ev.ID != "" {
			if c.seenCache.Contains(ev.ID) {
				continue
			}

			c.seenCache.Add(ev.ID, true)
		}

		switch ev.Type {
		case "removed":
			if c.OnRoomDeleted != nil {
				c.OnRoomDeleted(ev.RID)
			}
		case "inserted", "updated":
			if c.OnRoomChanged != nil && ev.Room.ID != "" {
				c.OnRoomChanged(ev.Room.toRecord())
			}
		default:
			c.logger.Tracef("WS: ignoring event type %q", ev.Type)
		}
	}
}
