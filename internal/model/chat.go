package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one message in a course section's chat room.
type ChatMessage struct {
	ID         uuid.UUID `json:"id"`
	SectionID  uuid.UUID `json:"section_id"`
	AccountID  int       `json:"account_id"`
	SenderName string    `json:"sender_name,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// SendMessageRequest is the payload for posting a chat message over REST.
type SendMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=2000"`
}
