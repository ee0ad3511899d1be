// Package hub provides a channel-based fan-out for the controller
// websocket: every connected browser or CLI sees the same pushed state.
package hub

// Message is a protocol line queued for delivery to clients.
type Message struct {
	Data []byte
}

// Text wraps a protocol line as a message.
func Text(line string) Message {
	return Message{Data: []byte(line)}
}
