package dto

import "time"

// InboundMessage is the queue payload for one extracted customer message.
type InboundMessage struct {
	Channel    string    `json:"channel"`
	UserID     string    `json:"user_id"`
	MessageID  string    `json:"message_id"`
	Text       string    `json:"text"`
	Strategy   string    `json:"strategy,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

type WebhookResponse struct {
	Status   string `json:"status"`
	Accepted int    `json:"accepted"`
}

type BotMessageRequest struct {
	Channel   string `json:"channel"`
	UserID    string `json:"user_id" validate:"required"`
	Text      string `json:"text" validate:"required"`
	MessageID string `json:"message_id"`
}

type BotMediaResponse struct {
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
}

type BotMessageResponse struct {
	Reply   string            `json:"reply"`
	Media   *BotMediaResponse `json:"media,omitempty"`
	Stage   string            `json:"stage,omitempty"`
	Dropped bool              `json:"dropped,omitempty"`
}

// TurnEvent is streamed to the live monitor after every handled message.
type TurnEvent struct {
	Channel    string    `json:"channel"`
	UserID     string    `json:"user_id"`
	MessageID  string    `json:"message_id,omitempty"`
	Text       string    `json:"text"`
	Reply      string    `json:"reply,omitempty"`
	Stage      string    `json:"stage"`
	Dropped    bool      `json:"dropped,omitempty"`
	Delivered  bool      `json:"delivered"`
	DurationMs int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}
