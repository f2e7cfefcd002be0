// Package chatclient connects the mini client to a relay over a websocket.
//
// Dial identifies with a hello frame and joins the configured channels. A
// background receiver decodes frames and queues them as chat.Incoming values
// in a bounded queue that drops the oldest entry when full, so a slow UI
// never stalls the socket. Poll hands them to the controller one at a time.
//
// Failures come back as *TransportError. A lost connection is also delivered
// through Poll as an Incoming with Err set, so the UI can show it in the
// scrollback instead of exiting.
package chatclient
