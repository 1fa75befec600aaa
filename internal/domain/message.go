package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// FeedbackPrefix marks a message submitted through the feedback form.
const FeedbackPrefix = "Feedback:"

// Message is a contact or feedback submission.
type Message struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Body      string
	Date      time.Time
	IsRead    bool
	CreatedAt time.Time
}

// MessagePatch carries the fields of a partial message update.
type MessagePatch struct {
	IsRead *bool
}

// Validate checks required fields before a message is submitted.
func (m Message) Validate() error {
	var missing []string
	if strings.TrimSpace(m.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(m.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(m.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(m.Body) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required message fields", map[string]any{"missing": missing})
	}
	return nil
}

// IsFeedback reports whether the message came from the feedback form.
func (m Message) IsFeedback() bool {
	return strings.HasPrefix(m.Subject, FeedbackPrefix)
}

// FeedbackSubject builds the subject line for a feedback submission.
func FeedbackSubject(role Role) string {
	label := "Student"
	if role != "" {
		label = string(role)
	}
	return fmt.Sprintf("%s %s Feedback", FeedbackPrefix, label)
}
