package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dive-server/src/store"

	"github.com/gorilla/websocket"
)

// Feed follows the leaderboard the server pushes over its play websocket
// every time a score is stored.
type Feed struct {
	conn *websocket.Conn
}

// wsURL turns an http(s) base URL into the websocket endpoint.
func wsURL(base string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws"
}

func DialFeed(ctx context.Context, baseURL string) (*Feed, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL(baseURL), nil)
	if err != nil {
		return nil, fmt.Errorf("dial leaderboard feed: %w", err)
	}
	return &Feed{conn: conn}, nil
}

// Next blocks until the next leaderboard push. Other messages are skipped.
func (f *Feed) Next() ([]store.Entry, error) {
	for {
		_, raw, err := f.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != "leaderboard" {
			continue
		}
		var p struct {
			Data []store.Entry `json:"data"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode leaderboard push: %w", err)
		}
		return p.Data, nil
	}
}

func (f *Feed) Close() error {
	return f.conn.Close()
}
