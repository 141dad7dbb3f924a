package realtime

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/marcos-nsantos/presence-socket/internal/domain"
)

type ClientConfig struct {
	MaxMessageSize int64
	PingInterval   time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	SendBuffer     int
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MaxMessageSize: 64 * 1024,
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		SendBuffer:     64,
	}
}

// NewUpgrader accepts any origin; devices do not send browser origins.
func NewUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(_ *http.Request) bool { return true },
	}
}

// inboundBuffer bounds the frames read but not yet handled.
const inboundBuffer = 16

// Client is a device socket with one read pump (the caller of Run), one
// dispatch goroutine handling inbound frames in order, and one write pump
// goroutine draining the send buffer.
type Client struct {
	id   string
	conn *websocket.Conn
	cfg  ClientConfig

	mu       sync.RWMutex
	send     chan []byte
	closed   bool
	writeErr error
}

func NewClient(conn *websocket.Conn, cfg ClientConfig) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		cfg:  cfg,
		send: make(chan []byte, cfg.SendBuffer),
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) RemoteAddr() string {
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

func (c *Client) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

func (c *Client) Send(msg []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return domain.ErrConnectionClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return domain.ErrSendBufferFull
	}
}

// Close stops accepting sends. The write pump then sends a close frame and
// closes the socket, which ends Run.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// fail records the first write error and closes the client.
func (c *Client) fail(err error) {
	c.mu.Lock()
	if c.writeErr == nil {
		c.writeErr = err
	}
	c.mu.Unlock()
	c.Close()
}

// Run pumps the connection until it closes. onMessage is called for every
// inbound data frame, one at a time and in arrival order, off the read
// goroutine so a slow handler never stalls keepalive. Run returns only after
// every queued frame was handled. A clean close returns nil; anything else
// is returned as the transport error, read side first.
func (c *Client) Run(onMessage func(msg []byte)) error {
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		c.writePump()
	}()

	inbound := make(chan []byte, inboundBuffer)
	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		for msg := range inbound {
			onMessage(msg)
		}
	}()

	err := c.readPump(inbound)
	close(inbound)
	c.Close()
	<-dispatchDone
	<-writeDone

	if err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.writeErr
}

func (c *Client) readPump(inbound chan<- []byte) error {
	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return nil
			}
			// Closed from our side; the read error is the echo of that.
			if !c.IsOpen() {
				return nil
			}
			return err
		}
		inbound <- msg
		// Any inbound frame counts as liveness. Re-armed after the hand-off
		// since a full queue blocks it.
		_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.fail(fmt.Errorf("writing message: %w", err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.fail(fmt.Errorf("writing ping: %w", err))
				return
			}
		}
	}
}
