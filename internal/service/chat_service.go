package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/dto"
	"github.com/nandanhq/peerverse/internal/model"
	"github.com/nandanhq/peerverse/internal/repository"
	"github.com/nandanhq/peerverse/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// GlobalChatChannel is the Redis pub/sub channel every chat websocket
// subscribes to.
const GlobalChatChannel = "global_chat"

// chatHistoryWindow bounds how far back new joiners see. Messages older
// than this stay in the table but are not replayed.
const chatHistoryWindow = 10 * time.Minute

type ChatService interface {
	SendMessage(ctx context.Context, senderID uuid.UUID, content, messageType string) (*dto.ChatMessageResponse, error)
	GetRecentMessages(ctx context.Context) ([]dto.ChatMessageResponse, error)
}

type chatService struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	redisClient *redis.Client
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, redisClient *redis.Client) ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		redisClient: redisClient,
	}
}

func (s *chatService) SendMessage(ctx context.Context, senderID uuid.UUID, content, messageType string) (*dto.ChatMessageResponse, error) {
	if content == "" {
		return nil, apperror.New(0, "message content cannot be empty", apperror.ErrInvalidInput)
	}
	if messageType != "text" && messageType != "image" {
		messageType = "text"
	}

	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", senderID.String())
		}
		return nil, err
	}

	message := &model.ChatMessage{
		SenderID: senderID,
		Content:  content,
		Type:     messageType,
	}

	if err := s.chatRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to save chat message: %w", err)
	}

	resp := dto.ChatMessageResponse{
		ID:        message.ID,
		Content:   message.Content,
		Type:      message.Type,
		CreatedAt: message.CreatedAt,
		Sender: &dto.AuthorSummary{
			ID:         sender.ID,
			Name:       sender.Name,
			ProfilePic: sender.ProfilePic,
			IsMentor:   sender.IsMentor,
		},
	}

	if s.redisClient != nil {
		payload, err := json.Marshal(resp)
		if err == nil {
			if err := s.redisClient.Publish(ctx, GlobalChatChannel, payload).Err(); err != nil {
				log.Printf("Failed to publish chat message to redis: %v", err)
			}
		}
	}

	return &resp, nil
}

func (s *chatService) GetRecentMessages(ctx context.Context) ([]dto.ChatMessageResponse, error) {
	since := time.Now().Add(-chatHistoryWindow)
	messages, err := s.chatRepo.FindSince(ctx, since)
	if err != nil {
		return nil, err
	}

	resps := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, message := range messages {
		resp := dto.ChatMessageResponse{
			ID:        message.ID,
			Content:   message.Content,
			Type:      message.Type,
			CreatedAt: message.CreatedAt,
		}
		if message.Sender.ID != uuid.Nil {
			resp.Sender = &dto.AuthorSummary{
				ID:         message.Sender.ID,
				Name:       message.Sender.Name,
				ProfilePic: message.Sender.ProfilePic,
				IsMentor:   message.Sender.IsMentor,
			}
		}
		resps = append(resps, resp)
	}
	return resps, nil
}
