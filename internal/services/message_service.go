package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taxdir/api/internal/models"
)

type MessageService struct {
	messageRepo models.MessageRepo
}

func NewMessageService(messageRepo models.MessageRepo) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
	}
}

func (ms *MessageService) StartConversation(ctx context.Context, a, b uuid.UUID) (*models.Conversation, error) {
	if a == uuid.Nil || b == uuid.Nil {
		return nil, fmt.Errorf("both participants are required")
	}
	if a == b {
		return nil, fmt.Errorf("cannot start a conversation with yourself")
	}
	return ms.messageRepo.StartConversation(ctx, a, b)
}

// SendMessage appends a message after confirming the sender belongs to the
// conversation.
func (ms *MessageService) SendMessage(ctx context.Context, conversationID primitive.ObjectID, senderID uuid.UUID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("message body is required")
	}
	if err := models.Validate.Var(body, "max=4000"); err != nil {
		return nil, fmt.Errorf("message too long")
	}

	conv, err := ms.messageRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("conversation not found: %v", err)
	}
	if conv.ParticipantA != senderID && conv.ParticipantB != senderID {
		return nil, fmt.Errorf("sender is not part of this conversation")
	}

	return ms.messageRepo.SendMessage(ctx, conversationID, senderID, body)
}

func (ms *MessageService) ListConversations(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	return ms.messageRepo.ListConversations(ctx, userID)
}

func (ms *MessageService) ListMessages(ctx context.Context, conversationID primitive.ObjectID, userID uuid.UUID, limit int) ([]*models.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	conv, err := ms.messageRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("conversation not found: %v", err)
	}
	if conv.ParticipantA != userID && conv.ParticipantB != userID {
		return nil, fmt.Errorf("not a participant of this conversation")
	}

	return ms.messageRepo.ListMessages(ctx, conversationID, limit)
}
