// Package rocketclient talks to a Rocket.Chat style server: a REST surface
// for room operations and a websocket stream for realtime room updates.
// It implements the roomview.Gateway interface.
package rocketclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/jpillora/backoff"
	prefixed "github.com/matterbridge/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"

	"github.com/zyfking/rocketroom/roomview"
)

type Credentials struct {
	UserID        string
	Token         string
	Server        string
	NoTLS         bool
	SkipTLSVerify bool
}

type Client struct {
	*Credentials

	// PageSize is the history page requested from the server; the
	// controller applies the same threshold for end-of-history detection.
	PageSize int

	// Realtime callbacks, set before Listen.
	OnRoomChanged func(room roomview.RoomRecord)
	OnRoomDeleted func(rid string)

	httpClient *http.Client
	logger     *logrus.Entry
	rootLogger *logrus.Logger
	seenCache  *lru.Cache
}

var _ roomview.Gateway = (*Client)(nil)

func New(cred *Credentials) *Client {
	rootLogger := logrus.New()
	rootLogger.SetFormatter(&prefixed.TextFormatter{
		PrefixPadding: 13,
		DisableColors: true,
	})

	cache, _ := lru.New(500)

	return &Client{
		Credentials: cred,
		PageSize:    roomview.DefaultPageSize,
		httpClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: cred.SkipTLSVerify, //nolint:gosec
				},
				Proxy: http.ProxyFromEnvironment,
			},
			Timeout: time.Second * 10,
		},
		rootLogger: rootLogger,
		seenCache:  cache,
		logger:     rootLogger.WithFields(logrus.Fields{"prefix": "rocketclient"}),
	}
}

// SetLogLevel tries to parse the specified level and if successful sets
// the log level accordingly.
func (c *Client) SetLogLevel(level string) {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		c.logger.Warnf("Failed to parse specified log-level '%s': %#v", level, err)
	} else {
		c.rootLogger.SetLevel(l)
	}
}

func (c *Client) uriScheme() string {
	if c.NoTLS {
		return "http://"
	}

	return "https://"
}

func (c *Client) apiURL(path string) string {
	return c.uriScheme() + c.Server + "/api/v1/" + path
}

// ServerAlive probes the server info endpoint until it answers, backing
// off between attempts.
func (c *Client) ServerAlive(ctx context.Context) error {
	b := &backoff.Backoff{
		Min:    time.Second,
		Max:    5 * time.Minute,
		Jitter: true,
	}
	defer b.Reset()

	for {
		var info struct {
			Version string `json:"version"`
		}

		err := c.doGet(ctx, c.uriScheme()+c.Server+"/api/info", &info)
		if err == nil {
			c.logger.Infof("Found version %s", info.Version)

			return nil
		}

		d := b.Duration()
		c.logger.Debugf("Server not up yet (%s), retrying in %s", err, d)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
}

func (c *Client) doGet(ctx context.Context, rawurl string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return err
	}

	return c.do(req, out)
}

func (c *Client) doPost(ctx context.Context, rawurl string, body interface{}, out interface{}) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, bytes.NewReader(buf))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("X-Auth-Token", c.Token)
	req.Header.Set("X-User-Id", c.UserID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%s: %s (%s)", req.URL.Path, resp.Status, bytes.TrimSpace(data))
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(data, out)
}

func query(params map[string]string) string {
	v := url.Values{}
	for k, val := range params {
		v.Set(k, val)
	}

	return v.Encode()
}
