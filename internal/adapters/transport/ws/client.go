package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/pairline/internal/domain"
	"github.com/gorilla/websocket"
)

// Client is the player side of the websocket protocol, used by the join
// command and by tests.
type Client struct {
	conn *websocket.Conn
}

func Dial(ctx context.Context, url string) (*Client, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Send(event domain.Event, payload any) error {
	frame, err := encodeEnvelope(event, payload)
	if err != nil {
		return err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}
	return nil
}

func (c *Client) Join(name string) error {
	return c.Send(domain.EventJoin, domain.JoinRequest{Name: name})
}

// Receive blocks for the next event. A zero deadline waits forever.
func (c *Client) Receive(deadline time.Time) (Envelope, error) {
	_ = c.conn.SetReadDeadline(deadline)
	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			return Envelope{}, fmt.Errorf("receive: %w", err)
		}
		env, err := decodeEnvelope(frame)
		if err != nil {
			continue
		}
		return env, nil
	}
}

// Decode unmarshals the payload of env into v.
func Decode(env Envelope, v any) error {
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", env.Event, err)
	}
	return nil
}

func (c *Client) Close() error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
