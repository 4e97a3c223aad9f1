package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/amterp/tack/internal/api"
)

// Event is a change to a board's files reported by the server.
type Event struct {
	Type   api.FileChangeType
	Kind   api.FileChangeKind
	CardID string // set for card changes
}

type wireMessage struct {
	Type string         `json:"type"`
	Data api.FileChange `json:"data"`
}

// wsURL is the change feed endpoint, narrowed to board when it is set.
func (c *Client) wsURL(board string) string {
	u := c.baseURL + "/api/v1/ws"
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	if board != "" {
		u += "?board=" + url.QueryEscape(board)
	}
	return u
}

// Subscribe streams change events for this board until ctx ends or the
// connection drops; the channel is closed either way.
func (b *BoardClient) Subscribe(ctx context.Context) (<-chan Event, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.c.wsURL(b.name), nil)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", b.name, err)
	}

	events := make(chan Event, 16)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					b.c.log.WithError(err).Debug("event stream closed")
				}
				return
			}
			ev, ok := decodeEvent(data, b.name)
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

// decodeEvent extracts a change to board from a raw frame.
func decodeEvent(data []byte, board string) (Event, bool) {
	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return Event{}, false
	}
	if msg.Type != api.MessageFileChange || msg.Data.BoardName != board {
		return Event{}, false
	}
	return Event{Type: msg.Data.Type, Kind: msg.Data.Kind, CardID: msg.Data.CardID}, true
}
