// Package protocol defines the wire format spoken between the mini client and
// the relay.
//
// Every websocket text message carries exactly one JSON object:
//
//	{"type":"privmsg","nick":"alice","target":"#mini","body":"hi"}
//
// # Message Types
//
//   - hello: first frame from a client; nick is the chosen nickname
//   - join: subscribes the sender to the listed channels
//   - privmsg: a chat line for a channel ("#name") or a nickname
//   - notice: informational text from the relay (welcome, errors)
//
// The relay stamps nick on every privmsg it forwards, so clients never trust
// the nick field of frames they send.
//
// # Usage Example
//
//	data, err := protocol.Encode(protocol.Privmsg("#mini", "hello"))
//	if err != nil {
//	    return err
//	}
//	conn.WriteMessage(websocket.TextMessage, data)
//
//	msg, err := protocol.Decode(payload)
//	if err != nil {
//	    var verr *protocol.ValidationError
//	    if errors.As(err, &verr) {
//	        // malformed frame, skip it
//	    }
//	}
package protocol
