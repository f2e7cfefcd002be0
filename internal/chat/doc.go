// Package chat is the client's update loop.
//
// Each tick reconciles the terminal geometry, consumes at most one key token
// from the key poller and at most one incoming message from the transport,
// and redraws only what changed. Ticks produce at most one Event: Quit when
// the user presses Escape, or SendMsg with the submitted text on Enter.
//
// The controller runs on a single goroutine and owns the scrollback, the input
// line and the renderer. The only other goroutines are the key poller and the
// transport receiver, which hand work over through bounded queues.
package chat
