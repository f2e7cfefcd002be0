package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Type names a frame kind.
type Type string

const (
	TypeHello   Type = "hello"
	TypeJoin    Type = "join"
	TypePrivmsg Type = "privmsg"
	TypeNotice  Type = "notice"
)

const (
	// MaxNickLength is the longest nickname the relay accepts, in runes.
	MaxNickLength = 32

	// MaxBodyLength caps a single chat body, in bytes.
	MaxBodyLength = 4096

	// MaxFrameSize is the read limit applied to websocket connections.
	MaxFrameSize = 8192
)

// Message is one frame on the wire.
type Message struct {
	Type     Type     `json:"type"`
	Nick     string   `json:"nick,omitempty"`
	Target   string   `json:"target,omitempty"`
	Body     string   `json:"body,omitempty"`
	Channels []string `json:"channels,omitempty"`
}

// Hello builds the identification frame.
func Hello(nick string) Message {
	return Message{Type: TypeHello, Nick: nick}
}

// Join builds a channel subscription frame.
func Join(channels ...string) Message {
	return Message{Type: TypeJoin, Channels: channels}
}

// Privmsg builds a chat line for target.
func Privmsg(target, body string) Message {
	return Message{Type: TypePrivmsg, Target: target, Body: body}
}

// Notice builds a relay notice.
func Notice(body string) Message {
	return Message{Type: TypeNotice, Body: body}
}

// IsChannel reports whether a target names a channel rather than a nick.
func IsChannel(target string) bool {
	return strings.HasPrefix(target, "#") && len(target) > 1
}

// ValidationError describes a frame that decoded but is not acceptable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid frame: " + e.Reason
	}
	return fmt.Sprintf("invalid frame: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Validate checks the fields each type requires.
func (m Message) Validate() error {
	switch m.Type {
	case TypeHello:
		return ValidateNick(m.Nick)

	case TypeJoin:
		if len(m.Channels) == 0 {
			return invalid("channels", "must not be empty")
		}
		for _, ch := range m.Channels {
			if !IsChannel(ch) {
				return invalid("channels", fmt.Sprintf("contains %q, want a name starting with #", ch))
			}
		}
		return nil

	case TypePrivmsg:
		if m.Target == "" {
			return invalid("target", "is required")
		}
		if len(m.Body) > MaxBodyLength {
			return invalid("body", fmt.Sprintf("exceeds %d bytes", MaxBodyLength))
		}
		return nil

	case TypeNotice:
		return nil

	case "":
		return invalid("type", "is required")

	default:
		return invalid("type", fmt.Sprintf("%q is unknown", m.Type))
	}
}

// ValidateNick checks a nickname is usable.
func ValidateNick(nick string) error {
	if nick == "" {
		return invalid("nick", "is required")
	}
	if utf8.RuneCountInString(nick) > MaxNickLength {
		return invalid("nick", fmt.Sprintf("exceeds %d characters", MaxNickLength))
	}
	if strings.ContainsAny(nick, " #:") {
		return invalid("nick", "must not contain spaces, '#' or ':'")
	}
	return nil
}

// Encode validates m and marshals it to a JSON frame.
func Encode(m Message) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s frame: %w", m.Type, err)
	}
	return data, nil
}

// Decode parses and validates a JSON frame.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("failed to decode frame: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

func (m Message) String() string {
	switch m.Type {
	case TypeJoin:
		return fmt.Sprintf("join %s", strings.Join(m.Channels, ","))
	case TypeHello:
		return fmt.Sprintf("hello %s", m.Nick)
	default:
		return fmt.Sprintf("%s %s <%s> (%d bytes)", m.Type, m.Target, m.Nick, len(m.Body))
	}
}
