package server

import "github.com/nathoo/templecore/types"

// Frame kinds the server adds on top of the engine's notification kinds.
const (
	KindWelcome types.NotificationKind = "welcome"
	KindError   types.NotificationKind = "error"
)

// Client message types.
const (
	MsgLogin   = "login"
	MsgCommand = "command"
)

// ClientMessage is one frame sent by a player. The first frame must be a
// login; every later frame is a command.
type ClientMessage struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

// Envelope wraps every frame sent to a player.
type Envelope struct {
	Type    types.NotificationKind `json:"type"`
	Payload any                    `json:"payload"`
	Session string                 `json:"session,omitempty"`
}

// Welcome is the payload of the first frame after a successful login.
type Welcome struct {
	Session string `json:"session"`
	Name    string `json:"name"`
	Game    string `json:"game"`
	Resumed bool   `json:"resumed"`
}

// ErrorPayload reports a protocol failure.
type ErrorPayload struct {
	Message string `json:"message"`
}

func envelope(n types.Notification) Envelope {
	return Envelope{Type: n.Kind, Payload: n.Payload}
}

func errorFrame(msg string) Envelope {
	return Envelope{Type: KindError, Payload: ErrorPayload{Message: msg}}
}
