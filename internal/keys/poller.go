package keys

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/DevOrc/mini/internal/logging"
	"github.com/DevOrc/mini/internal/queue"
)

// DefaultQueueSize is far above any human typing burst between two ticks.
const DefaultQueueSize = 256

// EventSource yields terminal events. PollEvent blocks until an event is
// available and returns nil once the source is closed. tcell.Screen and
// screen.Terminal both satisfy it.
type EventSource interface {
	PollEvent() tcell.Event
}

// Poller reads events on its own goroutine and translates key presses into
// tokens for the controller. It never blocks on the consumer: when the queue
// is full the oldest token is dropped.
type Poller struct {
	source EventSource
	tokens *queue.Queue[Token]

	startOnce sync.Once
	done      chan struct{}
}

// NewPoller creates a poller over source with a token queue of the given size.
func NewPoller(source EventSource, queueSize int) *Poller {
	return &Poller{
		source: source,
		tokens: queue.New[Token](queueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the polling goroutine. Calling it more than once has no effect.
func (p *Poller) Start() {
	p.startOnce.Do(func() {
		go p.run()
	})
}

// Poll returns the next token without blocking.
func (p *Poller) Poll() (Token, bool) {
	return p.tokens.Poll()
}

// Done is closed when the polling goroutine exits, after the source closes.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) run() {
	defer close(p.done)

	for {
		ev := p.source.PollEvent()
		if ev == nil {
			logging.Debug("Key poller stopped")
			return
		}

		keyEv, ok := ev.(*tcell.EventKey)
		if !ok {
			// Resizes are picked up by the controller's geometry poll
			continue
		}

		tok, ok := Translate(FromEvent(keyEv))
		if !ok {
			continue
		}

		if p.tokens.Push(tok) {
			logging.Debug("Key queue full, dropped oldest token",
				zap.Uint64("dropped_total", p.tokens.Dropped()),
			)
		}
	}
}
