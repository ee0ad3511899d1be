package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	// writeWait is how long to wait for a write to complete
	writeWait = 10 * time.Second

	// readWait is how long a connection may stay silent. The control
	// protocol answers every ping with a pong line, so a healthy client
	// never goes quiet this long.
	readWait = 60 * time.Second

	// pingPeriod matches the original firmware's 5 second protocol ping
	pingPeriod = 5 * time.Second

	// maxMessageSize bounds a single control line
	maxMessageSize = 1024
)

// Client represents a single websocket controller connection.
type Client struct {
	// ID tags the connection in logs.
	ID string

	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	onLine func(c *Client, line string)
}

// NewClient registers a new controller connection with the hub. onLine is
// invoked from the read loop for every inbound protocol line.
func NewClient(hub *Hub, conn *websocket.Conn, onLine func(c *Client, line string)) *Client {
	client := &Client{
		ID:     uuid.NewString(),
		hub:    hub,
		conn:   conn,
		send:   make(chan Message, 64),
		onLine: onLine,
	}
	hub.register <- client
	return client
}

// Run starts the client's read and write pumps. It blocks until the
// connection closes, so call it from the websocket handler.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// Send queues a message for this client only. Messages are dropped when the
// client cannot keep up; the hub will disconnect it soon after.
func (c *Client) Send(msg Message) {
	select {
	case c.send <- msg:
	default:
	}
}

// SendText queues a protocol line for this client only.
func (c *Client) SendText(line string) {
	c.Send(Text(line))
}

// readPump reads protocol lines from the connection and hands them to the
// onLine callback. Any traffic counts as liveness.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(readWait))

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(readWait))
		if c.onLine != nil {
			c.onLine(c, string(data))
		}
	}
}

// writePump writes queued messages to the connection and emits the periodic
// protocol ping. Only this goroutine writes to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message.Data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
				return
			}
		}
	}
}
