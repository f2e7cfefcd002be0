// Package keys turns terminal key events into the small set of semantic
// tokens the chat screen understands.
//
// # Tokens
//
// A Token is one of Escape, Enter, Backspace, ArrowLeft, ArrowRight,
// Char(rune) or Digit(0..9). Translate maps a RawKey to a token and reports
// false for key-ups and keys with no meaning to the chat:
//
//	tok, ok := keys.Translate(keys.FromEvent(ev))
//
// Digits get their own variant; every other printable rune is a Char.
// Ctrl+C translates to Escape.
//
// # Poller
//
// Poller reads events from an EventSource on its own goroutine and queues
// the translated tokens. Poll never blocks, and when the consumer falls
// behind the oldest tokens are dropped:
//
//	poller := keys.NewPoller(term, keys.DefaultQueueSize)
//	poller.Start()
//	defer func() { term.Close(); <-poller.Done() }()
//
// The goroutine exits once the source's PollEvent returns nil.
package keys
