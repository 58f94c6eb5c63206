// Package chat is the duplex chat connection: an append-only inbound log and
// fire-and-forget sends.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/infrastructure/metrics"
)

const closeGrace = time.Second

// Channel is one chat connection. A Channel may be reopened after Close;
// the message log starts empty on every Open.
type Channel struct {
	url       string
	dialer    *websocket.Dialer
	log       zerolog.Logger
	onMessage func(domain.ChatMessage)

	mu       sync.Mutex
	conn     *websocket.Conn
	done     chan struct{}
	messages []domain.ChatMessage

	writeMu sync.Mutex
}

type Option func(*Channel)

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Channel) { c.dialer = d }
}

// WithMessageHook is called for every appended message, from the read loop.
func WithMessageHook(fn func(domain.ChatMessage)) Option {
	return func(c *Channel) { c.onMessage = fn }
}

func New(url string, log zerolog.Logger, opts ...Option) *Channel {
	c := &Channel{
		url:    url,
		dialer: websocket.DefaultDialer,
		log:    log.With().Str("component", "chat").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open dials the chat endpoint and starts reading. Opening an open channel
// is a no-op.
func (c *Channel) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}
	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial chat: %w", err)
	}
	c.conn = conn
	c.done = make(chan struct{})
	c.messages = nil
	go c.readLoop(conn, c.done)
	c.log.Info().Str("url", c.url).Msg("chat connected")
	return nil
}

func (c *Channel) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			ours := c.conn == conn
			if ours {
				c.conn = nil
			}
			c.mu.Unlock()
			if ours {
				// closed by the peer or the network, not by Close
				_ = conn.Close()
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.log.Info().Msg("chat closed by server")
				} else {
					c.log.Warn().Err(err).Msg("chat connection lost")
				}
			}
			return
		}

		var msg domain.ChatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn().Err(err).Int("bytes", len(data)).Msg("skipping malformed chat frame")
			continue
		}
		c.mu.Lock()
		c.messages = append(c.messages, msg)
		c.mu.Unlock()
		metrics.ChatMessagesTotal.WithLabelValues("in").Inc()
		if c.onMessage != nil {
			c.onMessage(msg)
		}
	}
}

// Send transmits {sender, text} when the channel is open. Otherwise the
// message is dropped; there is no queue. It reports whether the frame was
// written.
func (c *Channel) Send(sender, text string) bool {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		metrics.ChatDroppedTotal.Inc()
		c.log.Debug().Str("sender", sender).Msg("chat not open, message dropped")
		return false
	}

	c.writeMu.Lock()
	err := conn.WriteJSON(domain.ChatMessage{Sender: sender, Text: text})
	c.writeMu.Unlock()
	if err != nil {
		metrics.ChatDroppedTotal.Inc()
		c.log.Warn().Err(err).Msg("chat send failed")
		return false
	}
	metrics.ChatMessagesTotal.WithLabelValues("out").Inc()
	return true
}

// Close shuts the connection and waits for the read loop to stop. It is
// safe to call any number of times.
func (c *Channel) Close() error {
	c.mu.Lock()
	conn, done := c.conn, c.done
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		if done != nil {
			<-done
		}
		return nil
	}

	c.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	werr := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
	c.writeMu.Unlock()
	err := conn.Close()
	<-done
	c.log.Info().Msg("chat disconnected")

	if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
		c.log.Debug().Err(werr).Msg("close frame not delivered")
	}
	return err
}

// IsOpen reports whether sends are currently transmitted.
func (c *Channel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Done is closed when the current connection's read loop ends. It is nil
// before the first Open.
func (c *Channel) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Messages returns a copy of the inbound log in arrival order.
func (c *Channel) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}
