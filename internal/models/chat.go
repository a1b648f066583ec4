package models

import "time"

// PresenceStatus of a chat contact
type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceAway    PresenceStatus = "away"
	PresenceOffline PresenceStatus = "offline"
)

// Contact is someone the operator can chat with
type Contact struct {
	ID     int
	Name   string
	Role   string
	Status PresenceStatus
}

// Message is one line of a conversation.
// SenderID is 0 for messages written by the operator.
type Message struct {
	ID         string
	ContactID  int
	SenderID   int
	SenderName string
	Body       string
	SentAt     time.Time
	IsOwn      bool
}
