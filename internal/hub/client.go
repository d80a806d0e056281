package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Frame is one message on the observer feed
type Frame struct {
	Type string `json:"type"` // "hello", "candidate_updated", "interview_completed", "pong", "error"
	Data any    `json:"data"`
}

// WriteWait bounds a single frame write so a stalled observer cannot hold up broadcasts
const WriteWait = 5 * time.Second

type Client struct {
	Conn *websocket.Conn
	mu   sync.Mutex
	hook func(Frame)

	writeWait time.Duration
}

func NewClient(conn *websocket.Conn) *Client { return &Client{Conn: conn, writeWait: WriteWait} }

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(Frame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *Client) Send(frame Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return nil
	}
	if c.Conn == nil {
		return nil
	}
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteJSON(frame)
}
