package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Room codes are the capability; the stream carries nothing a GET on
	// the room would not, so cross-origin reads are fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client pumps a subscriber's events over one websocket connection.
type Client struct {
	conn   *websocket.Conn
	sub    *Subscriber
	hub    *Hub
	logger zerolog.Logger
}

// Upgrade upgrades the HTTP request and binds the connection to a new
// subscription on the room. The subscriber id tags every log line for the
// connection, so one lifecycle can be followed across subscribe, close,
// and unsubscribe.
func Upgrade(hub *Hub, w http.ResponseWriter, r *http.Request, roomCode string, logger zerolog.Logger) (*Client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	sub := hub.Subscribe(roomCode)
	logger = logger.With().Str("sub", sub.ID.String()).Str("rp", roomCode).Logger()
	logger.Debug().Msg("stream subscribed")

	return &Client{
		conn:   conn,
		sub:    sub,
		hub:    hub,
		logger: logger,
	}, nil
}

// Close unsubscribes and drops the connection without running the event
// loop. For callers that fail between Upgrade and Run.
func (c *Client) Close() {
	c.hub.Unsubscribe(c.sub)
	c.conn.Close()
	c.logger.Debug().Msg("stream unsubscribed")
}

// Run writes the initial event, then relays the subscription until either
// side goes away. It blocks until the connection is done.
func (c *Client) Run(initial Event) {
	defer func() {
		c.hub.Unsubscribe(c.sub)
		c.conn.Close()
		c.logger.Debug().Msg("stream unsubscribed")
	}()

	go c.readPump()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(initial); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-c.sub.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the stream is one-way. It exists to
// process pongs and to notice the peer closing.
func (c *Client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug().Err(err).Msg("stream closed")
			}
			return
		}
	}
}
