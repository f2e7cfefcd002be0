// Package server implements mini-relay, a small websocket chat relay.
//
// Each connection speaks the JSON frames from package protocol. A peer
// identifies with hello, joins channels with join and sends privmsg frames
// to a channel it has joined or directly to another nickname. The relay
// stamps the sender's nickname on every forwarded privmsg and never echoes a
// line back to its sender.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{
//	    Port:      6667,
//	    Advertise: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	// Start blocks until SIGINT, SIGTERM or a listener error
//	return srv.Start()
//
// # Connections
//
// Every peer has a read goroutine (the HTTP handler) and a write goroutine
// that owns the socket's data writes and sends pings. Outgoing frames queue
// in a bounded channel; a peer that lets it fill is disconnected rather than
// stalling the channel.
//
// # TLS
//
// Setting both CertPath and KeyPath serves wss:// with TLS 1.2 or newer.
//
// # Graceful Shutdown
//
// Shutdown withdraws the mDNS advertisement, stops accepting connections,
// sends every peer a going-away close frame and waits for the peer
// goroutines to finish.
package server
