package chat

import "fmt"

// EventKind identifies an outward event.
type EventKind int

const (
	// EventQuit asks the client to shut down.
	EventQuit EventKind = iota + 1
	// EventSendMsg carries text the user submitted.
	EventSendMsg
)

func (k EventKind) String() string {
	switch k {
	case EventQuit:
		return "Quit"
	case EventSendMsg:
		return "SendMsg"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is what a tick hands to the outside world: Quit or SendMsg(text).
type Event struct {
	Kind EventKind
	Text string
}

// Quit returns a quit event.
func Quit() Event {
	return Event{Kind: EventQuit}
}

// SendMsg returns an event carrying submitted text.
func SendMsg(text string) Event {
	return Event{Kind: EventSendMsg, Text: text}
}

func (e Event) String() string {
	if e.Kind == EventSendMsg {
		return fmt.Sprintf("SendMsg(%q)", e.Text)
	}
	return e.Kind.String()
}

// Incoming is a decoded message from the network, or a transport failure to
// show the user.
type Incoming struct {
	Target string
	Sender string
	Body   string
	Notice bool
	Err    error
}

// Format renders the scrollback line for the message: "<sender>: <body>",
// falling back to the target when the sender is unknown.
func (m Incoming) Format() string {
	switch {
	case m.Err != nil:
		return "error: " + m.Err.Error()
	case m.Notice:
		return "-notice-: " + m.Body
	case m.Sender != "":
		return m.Sender + ": " + m.Body
	default:
		return m.Target + ": " + m.Body
	}
}
