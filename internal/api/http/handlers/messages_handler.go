package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/service"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// MessagesHandler serves the contact form, feedback and the admin inbox.
type MessagesHandler struct {
	data DataProvider
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(data DataProvider) *MessagesHandler {
	return &MessagesHandler{data: data}
}

// Create handles POST /messages. Callers need not be signed in.
func (h *MessagesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}

	created, err := dc.CreateMessage(c.UserContext(), domain.Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": messageResponse(created)})
}

// Feedback handles POST /feedback.
func (h *MessagesHandler) Feedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}

	created, err := dc.SubmitFeedback(c.UserContext(), service.FeedbackInput{
		Name:  req.Name,
		Email: req.Email,
		Body:  req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": messageResponse(created)})
}

// List handles GET /messages.
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}
	var messages []domain.Message
	if c.QueryBool("refresh") {
		messages, err = dc.RefreshMessages(c.UserContext())
	} else {
		messages, err = dc.Messages()
	}
	if err != nil {
		return err
	}

	resp := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		resp = append(resp, messageResponse(&messages[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// MarkRead handles POST /messages/:id/read. An omitted flag marks the
// message read.
func (h *MessagesHandler) MarkRead(c *fiber.Ctx) error {
	var req dto.MarkReadRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	read := true
	if req.IsRead != nil {
		read = *req.IsRead
	}
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}

	updated, err := dc.MarkMessageRead(c.UserContext(), c.Params("id"), read)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messageResponse(updated)})
}

// Delete handles DELETE /messages/:id.
func (h *MessagesHandler) Delete(c *fiber.Ctx) error {
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}
	if err := dc.DeleteMessage(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
