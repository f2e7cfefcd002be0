package server

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/DevOrc/mini/internal/logging"
	"github.com/DevOrc/mini/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Frames buffered per peer before it is considered too slow
	sendQueueSize = 64
)

// peer is one websocket connection. readPump runs on the HTTP handler
// goroutine; writePump owns all data writes.
type peer struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string

	// nick is guarded by hub.mu
	nick string
}

func newPeer(hub *Hub, conn *websocket.Conn, remoteAddr string) *peer {
	return &peer{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendQueueSize),
		remoteAddr: remoteAddr,
	}
}

func (p *peer) readPump() {
	defer func() {
		p.hub.unregister(p)
		_ = p.conn.Close()
	}()

	p.conn.SetReadLimit(protocol.MaxFrameSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Info("Connection closed with error",
					zap.String("remote_addr", p.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}

		logging.LogFrame("Frame received", data)

		msg, err := protocol.Decode(data)
		if err != nil {
			logging.Warn("Rejected frame",
				zap.String("remote_addr", p.remoteAddr),
				zap.Error(err),
			)
			p.hub.mu.Lock()
			p.hub.noticeLocked(p, "bad frame: "+err.Error())
			p.hub.mu.Unlock()
			continue
		}
		p.hub.handle(p, msg)
	}
}

func (p *peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.conn.Close()
	}()

	for {
		select {
		case data, ok := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.Debug("Write failed", zap.String("remote_addr", p.remoteAddr), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (p *peer) closeGoingAway() {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "relay shutting down")
	_ = p.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = p.conn.Close()
}
