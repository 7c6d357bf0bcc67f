package model

import "github.com/google/uuid"

// StudentContact holds the delivery coordinates for a student.
type StudentContact struct {
	StudentID      uuid.UUID `json:"student_id"`
	Email          string    `json:"email"`
	TelegramChatID string    `json:"telegram_chat_id"`
	Channel        string    `json:"channel"` // preferred delivery channel, e.g. "email", "telegram"
}
