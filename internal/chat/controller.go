package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DevOrc/mini/internal/editor"
	"github.com/DevOrc/mini/internal/keys"
	"github.com/DevOrc/mini/internal/logging"
	"github.com/DevOrc/mini/internal/render"
	"github.com/DevOrc/mini/internal/screen"
	"github.com/DevOrc/mini/internal/scrollback"
)

// DefaultIdle is how long Run waits between ticks.
const DefaultIdle = 10 * time.Millisecond

// LocalPrefix marks lines the user sent.
const LocalPrefix = "You: "

// KeySource yields semantic key tokens without blocking.
type KeySource interface {
	Poll() (keys.Token, bool)
}

// MessageSource yields incoming messages without blocking.
type MessageSource interface {
	Poll() (Incoming, bool)
}

// Handler receives the events a tick produces. An error from a SendMsg
// event is shown in the scrollback; it does not stop the loop.
type Handler func(Event) error

// Controller runs the single-threaded update loop. It is the only owner of
// the scrollback, the input line and the renderer, so none of them need
// locking.
type Controller struct {
	keys     KeySource
	messages MessageSource

	buffer   *scrollback.Buffer
	line     *editor.Line
	renderer *render.Renderer

	idle time.Duration
	quit bool
}

// New builds a controller drawing on console and paints the initial screen.
func New(console screen.Console, keySource KeySource, messages MessageSource) *Controller {
	geom := console.Geometry()
	buffer := scrollback.New(geom)
	line := editor.New()

	c := &Controller{
		keys:     keySource,
		messages: messages,
		buffer:   buffer,
		line:     line,
		renderer: render.New(console, buffer, line),
		idle:     DefaultIdle,
	}
	c.renderer.FullRedraw()
	return c
}

// SetIdle changes the pause between ticks in Run.
func (c *Controller) SetIdle(d time.Duration) {
	if d > 0 {
		c.idle = d
	}
}

// Renderer exposes the renderer, mainly for tests.
func (c *Controller) Renderer() *render.Renderer {
	return c.renderer
}

// Scrollback returns the output history.
func (c *Controller) Scrollback() *scrollback.Buffer {
	return c.buffer
}

// Input returns the input line.
func (c *Controller) Input() *editor.Line {
	return c.line
}

// Done reports whether a Quit has been observed.
func (c *Controller) Done() bool {
	return c.quit
}

// Tick runs one iteration: reconcile geometry, handle at most one key and at
// most one incoming message. It returns the event the key produced, if any.
func (c *Controller) Tick() (Event, bool) {
	c.renderer.CheckResize()

	var ev Event
	var emitted bool
	if tok, ok := c.keys.Poll(); ok {
		ev, emitted = c.handleKey(tok)
	}

	if msg, ok := c.messages.Poll(); ok {
		c.AddLine(msg.Format())
	}

	return ev, emitted
}

func (c *Controller) handleKey(tok keys.Token) (Event, bool) {
	switch tok.Kind {
	case keys.KindEscape:
		c.quit = true
		return Quit(), true

	case keys.KindEnter:
		text := c.line.Submit()
		c.buffer.Append(LocalPrefix + text)
		c.renderer.RedrawOutput(true)
		c.renderer.RedrawInputBar()
		return SendMsg(text), true
	}

	if c.line.Apply(tok) {
		c.renderer.RedrawInputBar()
	}
	return Event{}, false
}

// AddLine appends a line to the scrollback and repaints the output region.
func (c *Controller) AddLine(text string) {
	c.buffer.Append(text)
	c.renderer.RedrawOutput(true)
}

// Run ticks until Quit is observed or ctx is cancelled, passing every event
// to handle. A clean quit returns nil.
func (c *Controller) Run(ctx context.Context, handle Handler) error {
	ticker := time.NewTicker(c.idle)
	defer ticker.Stop()

	for {
		if ev, ok := c.Tick(); ok {
			if err := handle(ev); err != nil && ev.Kind == EventSendMsg {
				logging.Warn("Failed to send message", zap.Error(err))
				c.AddLine("error: " + err.Error())
			}
		}

		if c.quit {
			logging.Info("Quit requested")
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
