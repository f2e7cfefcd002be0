package chatclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DevOrc/mini/internal/chat"
	"github.com/DevOrc/mini/internal/protocol"
)

// testRelay accepts one websocket at a time and records decoded frames.
type testRelay struct {
	srv    *httptest.Server
	frames chan protocol.Message
	conns  chan *websocket.Conn
	wg     sync.WaitGroup
}

func newTestRelay(t *testing.T) *testRelay {
	t.Helper()
	r := &testRelay{
		frames: make(chan protocol.Message, 16),
		conns:  make(chan *websocket.Conn, 1),
	}
	upgrader := websocket.Upgrader{}
	r.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		r.wg.Add(1)
		defer r.wg.Done()
		defer conn.Close()

		r.conns <- conn
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msg, err := protocol.Decode(data); err == nil {
				r.frames <- msg
			}
		}
	}))
	t.Cleanup(func() {
		r.srv.Close()
		r.wg.Wait()
	})
	return r
}

func (r *testRelay) url() string {
	return "ws" + strings.TrimPrefix(r.srv.URL, "http")
}

func (r *testRelay) nextFrame(t *testing.T) protocol.Message {
	t.Helper()
	select {
	case m := <-r.frames:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return protocol.Message{}
	}
}

func (r *testRelay) conn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case c := <-r.conns:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for connection")
		return nil
	}
}

func dial(t *testing.T, r *testRelay) *Client {
	t.Helper()
	c, err := Dial(context.Background(), Options{
		Server:   r.url(),
		Nick:     "program",
		Channels: []string{"#mini", "#rust"},
	})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func waitIncoming(t *testing.T, c *Client) chat.Incoming {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m, ok := c.Poll(); ok {
			return m
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for incoming message")
	return chat.Incoming{}
}

func TestDial_Identifies(t *testing.T) {
	r := newTestRelay(t)
	dial(t, r)

	hello := r.nextFrame(t)
	if hello.Type != protocol.TypeHello || hello.Nick != "program" {
		t.Errorf("first frame = %+v, want hello program", hello)
	}

	join := r.nextFrame(t)
	if join.Type != protocol.TypeJoin {
		t.Fatalf("second frame type = %q, want join", join.Type)
	}
	if strings.Join(join.Channels, ",") != "#mini,#rust" {
		t.Errorf("join channels = %v, want [#mini #rust]", join.Channels)
	}
}

func TestDial_NoChannels(t *testing.T) {
	r := newTestRelay(t)
	c, err := Dial(context.Background(), Options{Server: r.url(), Nick: "solo"})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	if got := r.nextFrame(t); got.Type != protocol.TypeHello {
		t.Fatalf("first frame = %+v, want hello", got)
	}
	if err := c.Send("#mini", "x"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got := r.nextFrame(t); got.Type != protocol.TypePrivmsg {
		t.Errorf("second frame = %+v, want privmsg (no join)", got)
	}
}

func TestClient_Send(t *testing.T) {
	r := newTestRelay(t)
	c := dial(t, r)
	r.nextFrame(t)
	r.nextFrame(t)

	if err := c.Send("#mini", "hello world"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	got := r.nextFrame(t)
	if got.Type != protocol.TypePrivmsg || got.Target != "#mini" || got.Body != "hello world" {
		t.Errorf("frame = %+v, want privmsg #mini hello world", got)
	}
}

func TestClient_SendInvalid(t *testing.T) {
	r := newTestRelay(t)
	c := dial(t, r)

	err := c.Send("", "no target")
	var te *TransportError
	if !errors.As(err, &te) || te.Type != ErrTypeProtocol {
		t.Fatalf("Send() error = %v, want protocol TransportError", err)
	}
}

func TestClient_Receive(t *testing.T) {
	r := newTestRelay(t)
	c := dial(t, r)
	conn := r.conn(t)

	frames := []string{
		`{"type":"privmsg","nick":"alice","target":"#mini","body":"hi"}`,
		`not a frame`,
		`{"type":"join","channels":["#mini"]}`,
		`{"type":"notice","body":"welcome to #mini"}`,
		`{"type":"privmsg","target":"program","body":"psst"}`,
	}
	for _, f := range frames {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
	}

	want := []string{"alice: hi", "-notice-: welcome to #mini", "program: psst"}
	for _, w := range want {
		if got := waitIncoming(t, c).Format(); got != w {
			t.Errorf("incoming = %q, want %q", got, w)
		}
	}
}

func TestClient_RelayCloses(t *testing.T) {
	r := newTestRelay(t)
	c := dial(t, r)
	conn := r.conn(t)

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = conn.Close()

	got := waitIncoming(t, c)
	if got.Err == nil {
		t.Fatalf("incoming = %+v, want error", got)
	}
	if !IsRetryable(got.Err) {
		t.Errorf("IsRetryable(%v) = false, want true", got.Err)
	}

	<-c.Done()
	if err := c.Send("#mini", "late"); !IsClosed(err) {
		t.Errorf("Send() after close error = %v, want closed", err)
	}
}

func TestClient_CloseTwice(t *testing.T) {
	r := newTestRelay(t)
	c := dial(t, r)

	_ = c.Close()
	_ = c.Close()

	select {
	case <-c.Done():
	default:
		t.Error("Done() not closed after Close()")
	}
	if err := c.Send("#mini", "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() error = %v, want ErrClosed", err)
	}
}

func TestDial_HandshakeRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Dial(context.Background(), Options{
		Server: "ws" + strings.TrimPrefix(srv.URL, "http"),
		Nick:   "program",
	})

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Dial() error = %v, want *TransportError", err)
	}
	if te.Type != ErrTypeHandshake {
		t.Errorf("Type = %v, want %v", te.Type, ErrTypeHandshake)
	}
	if te.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", te.StatusCode)
	}
	if te.Retryable {
		t.Error("404 handshake should not be retryable")
	}
}

func TestDial_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	_, err = Dial(context.Background(), Options{Server: "ws://" + addr, Nick: "program"})

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Dial() error = %v, want *TransportError", err)
	}
	if te.Type != ErrTypeDial {
		t.Errorf("Type = %v, want %v", te.Type, ErrTypeDial)
	}
	if !te.Retryable {
		t.Error("refused connection should be retryable")
	}
}

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeDial, "Dial Error"},
		{ErrTypeHandshake, "Handshake Error"},
		{ErrTypeSend, "Send Error"},
		{ErrTypeReceive, "Receive Error"},
		{ErrTypeClosed, "Connection Closed"},
		{ErrTypeProtocol, "Protocol Error"},
		{ErrorType(99), "ErrorType(99)"},
	}
	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", int(tt.et), got, tt.want)
		}
	}
}

func TestTransportError_Error(t *testing.T) {
	err := &TransportError{Type: ErrTypeSend, Message: "failed to write frame", Err: errors.New("broken pipe")}
	want := "Send Error: failed to write frame (caused by: broken pipe)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, err.Err) {
		t.Error("Unwrap() does not expose the cause")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors should not be retryable")
	}
}

func TestTroubleshooting(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"dial", &TransportError{Type: ErrTypeDial}, "mini-relay serve"},
		{"not found", &TransportError{Type: ErrTypeHandshake, StatusCode: 404}, "/ws"},
		{"forbidden", &TransportError{Type: ErrTypeHandshake, StatusCode: 403}, "wss://"},
		{"protocol", &TransportError{Type: ErrTypeProtocol}, "mini config"},
		{"receive", &TransportError{Type: ErrTypeReceive}, "reconnecting"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tips := Troubleshooting(tt.err)
			if !strings.Contains(strings.Join(tips, "\n"), tt.want) {
				t.Errorf("Troubleshooting() = %v, want mention of %q", tips, tt.want)
			}
		})
	}

	if tips := Troubleshooting(errors.New("plain")); tips != nil {
		t.Errorf("Troubleshooting(plain) = %v, want nil", tips)
	}
}
