package model

import "time"

// Record is a decoded JSON object from the API: the response body
// or one homework entry. Fields are extracted by the validator and parser.
type Record = map[string]any

// Keys of the API payload.
const (
	FieldHomeworks    = "homeworks"
	FieldCurrentDate  = "current_date"
	FieldHomeworkName = "homework_name"
	FieldStatus       = "status"
)

// DeliveryKind distinguishes status notifications from error alerts.
type DeliveryKind string

const (
	DeliveryStatus DeliveryKind = "status"
	DeliveryAlert  DeliveryKind = "alert"
)

// Delivery is a message the bot has sent to the chat.
type Delivery struct {
	ID           int64        `json:"id"`
	Kind         DeliveryKind `json:"kind"`
	HomeworkName string       `json:"homework_name,omitempty"`
	Status       string       `json:"status,omitempty"`
	Text         string       `json:"text"`
	Cursor       int64        `json:"cursor"`
	SentAt       time.Time    `json:"sent_at"`
}

// PollState is a snapshot of the poll loop.
type PollState struct {
	Cursor        int64      `json:"cursor"`
	Cycles        int64      `json:"cycles"`
	Failures      int64      `json:"failures"`
	Sent          int64      `json:"sent"`
	LastPollAt    *time.Time `json:"last_poll_at,omitempty"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}
