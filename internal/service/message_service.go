package service

import (
	"context"
	"strings"
	"time"

	"heartline/internal/models"
	"heartline/internal/repository"
	"heartline/internal/validation"
)

// CreateMessageRequest is the payload of sending a direct message.
type CreateMessageRequest struct {
	RecipientUsername string `json:"recipientUsername" validate:"required"`
	Content           string `json:"content" validate:"required,max=2000"`
}

// MessageService provides direct messaging between members.
type MessageService struct {
	uow repository.UnitOfWorkFactory
	now func() time.Time
}

// NewMessageService returns a new MessageService.
func NewMessageService(uow repository.UnitOfWorkFactory) *MessageService {
	return &MessageService{uow: uow, now: time.Now}
}

// SendMessage stores a message from senderID to the named recipient.
func (s *MessageService) SendMessage(ctx context.Context, senderID uint, req CreateMessageRequest) (*models.MessageDTO, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := validation.Struct(req); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	uow := s.uow.Begin()
	sender, err := uow.Users().GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender.Username == repository.NormalizeUsername(req.RecipientUsername) {
		return nil, models.NewValidationError("You cannot send messages to yourself")
	}

	recipient, err := uow.Users().GetByUsername(ctx, req.RecipientUsername)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, models.NewNotFoundMessage("User not found")
	}

	msg := &models.Message{
		SenderID:          sender.ID,
		SenderUsername:    sender.Username,
		RecipientID:       recipient.ID,
		RecipientUsername: recipient.Username,
		Content:           req.Content,
		MessageSent:       s.now().UTC(),
	}
	uow.Messages().AddMessage(msg)

	ok, err := uow.Complete(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewOperationError("Failed to send message", nil)
	}

	dto := models.NewMessageDTO(msg)
	return &dto, nil
}

// GetThread returns the conversation between userID and otherUsername and
// marks the unread messages addressed to userID as read.
func (s *MessageService) GetThread(ctx context.Context, userID uint, otherUsername string) ([]models.MessageDTO, error) {
	uow := s.uow.Begin()
	viewer, err := uow.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	msgs, err := uow.Messages().GetThread(ctx, viewer.Username, otherUsername)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var unread []uint
	for i := range msgs {
		if msgs[i].DateRead == nil && msgs[i].RecipientUsername == viewer.Username {
			unread = append(unread, msgs[i].ID)
			msgs[i].DateRead = &now
		}
	}
	uow.Messages().MarkRead(unread, now)
	if _, err := uow.Complete(ctx); err != nil {
		return nil, err
	}

	out := make([]models.MessageDTO, 0, len(msgs))
	for i := range msgs {
		out = append(out, models.NewMessageDTO(&msgs[i]))
	}
	return out, nil
}
