package server

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/DevOrc/mini/internal/logging"
	"github.com/DevOrc/mini/internal/protocol"
)

// Hub tracks identified peers and channel membership and routes privmsg
// frames between them.
type Hub struct {
	mu       sync.Mutex
	peers    map[*peer]struct{}
	nicks    map[string]*peer
	channels map[string]map[*peer]struct{}
	motd     string
}

func newHub(motd string) *Hub {
	return &Hub{
		peers:    make(map[*peer]struct{}),
		nicks:    make(map[string]*peer),
		channels: make(map[string]map[*peer]struct{}),
		motd:     motd,
	}
}

func (h *Hub) register(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p] = struct{}{}
}

// unregister removes p everywhere and closes its send queue.
func (h *Hub) unregister(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(p)
}

func (h *Hub) removeLocked(p *peer) {
	if _, ok := h.peers[p]; !ok {
		return
	}
	delete(h.peers, p)
	if p.nick != "" && h.nicks[p.nick] == p {
		delete(h.nicks, p.nick)
	}
	for name, members := range h.channels {
		delete(members, p)
		if len(members) == 0 {
			delete(h.channels, name)
		}
	}
	close(p.send)
}

// handle applies one decoded frame from p.
func (h *Hub) handle(p *peer, msg protocol.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.peers[p]; !ok {
		return
	}

	switch msg.Type {
	case protocol.TypeHello:
		h.identifyLocked(p, msg.Nick)

	case protocol.TypeJoin:
		if p.nick == "" {
			h.noticeLocked(p, "identify with hello before joining")
			return
		}
		for _, name := range msg.Channels {
			members, ok := h.channels[name]
			if !ok {
				members = make(map[*peer]struct{})
				h.channels[name] = members
			}
			members[p] = struct{}{}
		}
		logging.Info("Peer joined channels",
			zap.String("nick", p.nick),
			zap.Strings("channels", msg.Channels),
		)

	case protocol.TypePrivmsg:
		if p.nick == "" {
			h.noticeLocked(p, "identify with hello before sending")
			return
		}
		h.routeLocked(p, msg)

	default:
		logging.Debug("Ignoring frame from peer",
			zap.String("remote_addr", p.remoteAddr),
			zap.Stringer("frame", msg),
		)
	}
}

func (h *Hub) identifyLocked(p *peer, nick string) {
	if p.nick != "" {
		h.noticeLocked(p, "already identified as "+p.nick)
		return
	}

	unique := nick
	for i := 2; h.nicks[unique] != nil; i++ {
		unique = fmt.Sprintf("%s%d", nick, i)
	}
	p.nick = unique
	h.nicks[unique] = p

	logging.Info("Peer identified",
		zap.String("remote_addr", p.remoteAddr),
		zap.String("nick", unique),
	)

	if unique != nick {
		h.noticeLocked(p, fmt.Sprintf("nickname %s is taken, you are %s", nick, unique))
	}
	if h.motd != "" {
		h.noticeLocked(p, h.motd)
	}
}

func (h *Hub) routeLocked(from *peer, msg protocol.Message) {
	out := protocol.Message{
		Type:   protocol.TypePrivmsg,
		Nick:   from.nick,
		Target: msg.Target,
		Body:   msg.Body,
	}

	if !protocol.IsChannel(msg.Target) {
		to, ok := h.nicks[msg.Target]
		if !ok {
			h.noticeLocked(from, "no such nick: "+msg.Target)
			return
		}
		h.deliverLocked(to, out)
		return
	}

	members := h.channels[msg.Target]
	if _, joined := members[from]; !joined {
		h.noticeLocked(from, "you are not on "+msg.Target)
		return
	}
	for member := range members {
		if member != from {
			h.deliverLocked(member, out)
		}
	}
	logging.LogChatMessage("relayed", msg.Target, msg.Body)
}

func (h *Hub) noticeLocked(p *peer, text string) {
	h.deliverLocked(p, protocol.Notice(text))
}

// deliverLocked queues msg for p; a peer whose queue is full is dropped.
func (h *Hub) deliverLocked(p *peer, msg protocol.Message) {
	if _, ok := h.peers[p]; !ok {
		return
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		logging.Warn("Failed to encode outgoing frame", zap.Error(err))
		return
	}
	select {
	case p.send <- data:
	default:
		logging.Warn("Peer too slow, disconnecting",
			zap.String("remote_addr", p.remoteAddr),
			zap.String("nick", p.nick),
		)
		h.removeLocked(p)
	}
}

// Members returns the sorted nicknames joined to channel.
func (h *Hub) Members(channel string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	nicks := make([]string, 0, len(h.channels[channel]))
	for p := range h.channels[channel] {
		nicks = append(nicks, p.nick)
	}
	sort.Strings(nicks)
	return nicks
}

// Count returns the number of connected peers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// closeAll tells every peer the relay is going away.
func (h *Hub) closeAll() {
	h.mu.Lock()
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		logging.Info("Closing active connection", zap.String("remote_addr", p.remoteAddr))
		p.closeGoingAway()
	}
}
