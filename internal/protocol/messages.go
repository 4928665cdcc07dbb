// Package protocol defines the transport-neutral event and message shapes
// exchanged with the messaging platform adapter.
package protocol

import "context"

// EventType identifies inbound event variants.
type EventType string

const (
	// EventText is free-form user text.
	EventText EventType = "text"
	// EventAction is a named action selected from a button menu.
	EventAction EventType = "action"
)

// Action names carried by selection events.
const (
	ActionTaskOperations = "task_operations"
	ActionCreateTask     = "create_task"
	ActionReadTask       = "read_task"
	ActionUpdateTask     = "update_task"
	ActionDeleteTask     = "delete_task"
	ActionResetTask      = "reset_task"
	ActionTaskChart      = "task_chart"
	ActionCalculator     = "calculator"
)

// Event is one inbound transport event. The transport has already verified
// the sender; UserID is trusted here.
type Event struct {
	Type       EventType `json:"type"`
	UserID     string    `json:"user_id"`
	Text       string    `json:"text,omitempty"`
	Action     string    `json:"action,omitempty"`
	ReplyToken string    `json:"reply_token,omitempty"`
}

// MessageType identifies outbound message variants.
type MessageType string

const (
	TypeText    MessageType = "text"
	TypeImage   MessageType = "image"
	TypeButtons MessageType = "buttons"
)

type Button struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Message is one outbound reply. The platform adapter maps it onto the
// concrete message/button format of the messaging service.
type Message struct {
	Type     MessageType `json:"type"`
	Text     string      `json:"text,omitempty"`
	ImageURL string      `json:"image_url,omitempty"`
	Title    string      `json:"title,omitempty"`
	Buttons  []Button    `json:"buttons,omitempty"`
}

func TextMessage(text string) Message {
	return Message{Type: TypeText, Text: text}
}

func ImageMessage(url string) Message {
	return Message{Type: TypeImage, ImageURL: url}
}

func ButtonsMessage(title, text string, buttons ...Button) Message {
	return Message{Type: TypeButtons, Title: title, Text: text, Buttons: buttons}
}

// Replier delivers reply messages for one inbound event. Implementations
// must be safe for concurrent use: the router replies from request handlers
// while the worker replies from its own goroutine.
type Replier interface {
	Reply(ctx context.Context, replyToken string, msgs []Message) error
}
