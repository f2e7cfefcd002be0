package chatclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/DevOrc/mini/internal/chat"
	"github.com/DevOrc/mini/internal/logging"
	"github.com/DevOrc/mini/internal/protocol"
	"github.com/DevOrc/mini/internal/queue"
)

const (
	// Time allowed to write a message to the relay
	writeWait = 10 * time.Second

	// DefaultHandshakeTimeout bounds the websocket upgrade
	DefaultHandshakeTimeout = 10 * time.Second

	// DefaultQueueSize is how many undelivered messages are kept
	DefaultQueueSize = 256
)

// Options configures a connection to a relay.
type Options struct {
	Server           string   // ws:// or wss:// URL
	Nick             string   // Sent in the hello frame
	Channels         []string // Joined right after identifying
	QueueSize        int
	HandshakeTimeout time.Duration
	TLSConfig        *tls.Config
}

// Client is a live relay connection. Send may be called from one goroutine
// while a background receiver feeds Poll.
type Client struct {
	conn     *websocket.Conn
	opts     Options
	incoming *queue.Queue[chat.Incoming]

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the relay, identifies with the configured nickname and
// joins the configured channels.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = DefaultHandshakeTimeout
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.HandshakeTimeout,
		TLSClientConfig:  opts.TLSConfig,
	}

	logging.Info("Connecting to relay", zap.String("server", opts.Server))

	conn, resp, err := dialer.DialContext(ctx, opts.Server, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
			_ = resp.Body.Close()
		}
		return nil, classifyDialError(err, opts.Server, status)
	}
	conn.SetReadLimit(protocol.MaxFrameSize)

	c := &Client{
		conn:     conn,
		opts:     opts,
		incoming: queue.New[chat.Incoming](opts.QueueSize),
		done:     make(chan struct{}),
	}

	if err := c.identify(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logging.LogConnection(opts.Server, "identified")
	go c.readLoop()
	return c, nil
}

func (c *Client) identify() error {
	if err := c.write(protocol.Hello(c.opts.Nick)); err != nil {
		return err
	}
	if len(c.opts.Channels) == 0 {
		return nil
	}
	if err := c.write(protocol.Join(c.opts.Channels...)); err != nil {
		return err
	}
	logging.Info("Joined channels",
		zap.String("nick", c.opts.Nick),
		zap.Strings("channels", c.opts.Channels),
	)
	return nil
}

// Send delivers a chat line to target.
func (c *Client) Send(target, text string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.write(protocol.Privmsg(target, text)); err != nil {
		return err
	}
	logging.LogChatMessage("sent", target, text)
	return nil
}

func (c *Client) write(m protocol.Message) error {
	data, err := protocol.Encode(m)
	if err != nil {
		return &TransportError{
			Type:    ErrTypeProtocol,
			Message: fmt.Sprintf("cannot encode %s frame", m.Type),
			Server:  c.opts.Server,
			Err:     err,
		}
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return &TransportError{Type: ErrTypeSend, Message: "failed to set write deadline", Server: c.opts.Server, Err: err}
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return &TransportError{
			Type:      ErrTypeSend,
			Message:   "failed to write frame",
			Server:    c.opts.Server,
			Err:       err,
			Retryable: true,
		}
	}
	logging.LogFrame("Frame sent", data)
	return nil
}

// Poll returns the next received message without blocking.
func (c *Client) Poll() (chat.Incoming, bool) {
	return c.incoming.Poll()
}

// Done is closed once the receiver has stopped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Dropped reports how many received messages were discarded unread.
func (c *Client) Dropped() uint64 {
	return c.incoming.Dropped()
}

// Close sends a close frame, shuts the connection and waits for the
// receiver to exit.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.writeMu.Unlock()

		err = c.conn.Close()
		<-c.done
		logging.LogConnection(c.opts.Server, "closed")
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.done)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}
			c.closed.Store(true)
			terr := receiveError(err, c.opts.Server)
			logging.Warn("Relay connection ended", zap.Error(terr))
			c.push(chat.Incoming{Err: terr})
			return
		}

		logging.LogFrame("Frame received", data)

		msg, err := protocol.Decode(data)
		if err != nil {
			logging.Warn("Discarding undecodable frame", zap.Error(err))
			continue
		}

		switch msg.Type {
		case protocol.TypePrivmsg:
			logging.LogChatMessage("received", msg.Target, msg.Body)
			c.push(chat.Incoming{Target: msg.Target, Sender: msg.Nick, Body: msg.Body})
		case protocol.TypeNotice:
			c.push(chat.Incoming{Target: msg.Target, Sender: msg.Nick, Body: msg.Body, Notice: true})
		default:
			logging.Debug("Ignoring frame", zap.Stringer("frame", msg))
		}
	}
}

func (c *Client) push(m chat.Incoming) {
	if c.incoming.Push(m) {
		logging.Debug("Incoming queue full, dropped oldest message",
			zap.Uint64("dropped", c.incoming.Dropped()),
		)
	}
}
