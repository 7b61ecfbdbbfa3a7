package ws

import (
	"sync"
	"time"

	"github.com/bnema/pairline/internal/domain"
	"github.com/bnema/pairline/internal/ports"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	DefaultMaxMessageBytes = 8192
	DefaultSendBuffer      = 64
)

// Conn adapts one websocket to ports.Connection. Outbound frames go
// through a bounded queue drained by writePump; a full queue closes the
// connection instead of blocking the caller.
type Conn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	log  *zap.Logger

	mu       sync.RWMutex
	handlers map[domain.Event]ports.Handler

	closeOnce sync.Once
}

var _ ports.Connection = (*Conn)(nil)

func newConn(ws *websocket.Conn, sendBuffer int, log *zap.Logger) *Conn {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	id := uuid.NewString()
	return &Conn{
		id:       id,
		ws:       ws,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		log:      log.With(zap.String("conn", id)),
		handlers: make(map[domain.Event]ports.Handler),
	}
}

func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) Emit(event domain.Event, payload any) {
	frame, err := encodeEnvelope(event, payload)
	if err != nil {
		c.log.Error("drop outbound event", zap.String("event", string(event)), zap.Error(err))
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- frame:
	default:
		c.log.Warn("send queue full, closing connection", zap.String("event", string(event)))
		_ = c.Close()
	}
}

func (c *Conn) On(event domain.Event, handler ports.Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = handler
}

func (c *Conn) Off(event domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, event)
}

// Close asks the write pump to say goodbye and drop the socket. The read
// pump then fails and runs the close callback.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}

func (c *Conn) handler(event domain.Event) ports.Handler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.handlers[event]
}

func (c *Conn) readPump(maxMessageBytes int64, onClose func(*Conn)) {
	defer func() {
		_ = c.Close()
		_ = c.ws.Close()
		onClose(c)
	}()

	if maxMessageBytes <= 0 {
		maxMessageBytes = DefaultMaxMessageBytes
	}
	c.ws.SetReadLimit(maxMessageBytes)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		env, err := decodeEnvelope(frame)
		if err != nil {
			c.log.Debug("drop inbound frame", zap.Error(err))
			continue
		}

		handle := c.handler(env.Event)
		if handle == nil {
			c.log.Debug("no handler for event", zap.String("event", string(env.Event)))
			continue
		}
		handle(env.Data)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.Debug("websocket write failed", zap.Error(err))
				_ = c.Close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}
		case <-c.done:
			c.flush()
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes whatever is already queued so events emitted right before
// a close still reach the peer.
func (c *Conn) flush() {
	for {
		select {
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		default:
			return
		}
	}
}
