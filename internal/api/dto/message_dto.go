package dto

import "time"

// CreateMessageRequest payload for the contact form.
type CreateMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// FeedbackRequest payload. Name and email default to the signed-in profile.
type FeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// MarkReadRequest payload. A missing flag marks the message read.
type MarkReadRequest struct {
	IsRead *bool `json:"is_read"`
}

// MessageResponse response.
type MessageResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Date       time.Time `json:"date"`
	IsRead     bool      `json:"is_read"`
	IsFeedback bool      `json:"is_feedback"`
	CreatedAt  time.Time `json:"created_at"`
}
