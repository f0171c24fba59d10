package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/config"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
)

// ErrNotParticipant is returned when an account posts to a section chat it
// has no part in.
var ErrNotParticipant = errors.New("not a participant of this section")

// ChatService handles section chat rooms: persistence plus fan-out over
// Redis PubSub so every server instance sees every message.
type ChatService struct {
	chatRepo    *repository.ChatRepository
	sectionRepo *repository.SectionRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(
	chatRepo *repository.ChatRepository,
	sectionRepo *repository.SectionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		sectionRepo: sectionRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "chat_service").Logger(),
	}
}

// CanParticipate reports whether the account belongs in the section's chat:
// enrolled students, the owning lecturer, and admins.
func (s *ChatService) CanParticipate(ctx context.Context, claims *Claims, sectionID uuid.UUID) (bool, error) {
	switch claims.Role {
	case model.RoleAdmin:
		return true, nil
	case model.RoleLecturer:
		section, err := s.sectionRepo.GetByID(ctx, sectionID)
		if err != nil {
			return false, err
		}
		return section.LecturerID == claims.RoleID, nil
	case model.RoleStudent:
		return s.sectionRepo.IsEnrolled(ctx, claims.RoleID, sectionID)
	default:
		return false, nil
	}
}

// Send persists a message and publishes it to the section's channel.
func (s *ChatService) Send(ctx context.Context, claims *Claims, sectionID uuid.UUID, body, senderName string) (*model.ChatMessage, error) {
	ok, err := s.CanParticipate(ctx, claims, sectionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}

	msg := &model.ChatMessage{
		SectionID:  sectionID,
		AccountID:  claims.AccountID,
		SenderName: senderName,
		Body:       body,
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	channel := config.CacheKey.SectionChatChannel(sectionID.String())
	if err := s.rdb.Publish(ctx, channel, raw).Err(); err != nil {
		// Persisted but not fanned out; clients catch up via history.
		s.log.Warn().Err(err).Str("section_id", sectionID.String()).Msg("Chat publish failed")
	}
	return msg, nil
}

// Subscribe opens a Redis subscription on the section's channel. The caller
// owns the returned PubSub and must Close it.
func (s *ChatService) Subscribe(ctx context.Context, sectionID uuid.UUID) *redis.PubSub {
	return s.rdb.Subscribe(ctx, config.CacheKey.SectionChatChannel(sectionID.String()))
}

// History retrieves a section's message history with pagination.
func (s *ChatService) History(ctx context.Context, claims *Claims, sectionID uuid.UUID, page, perPage int) ([]model.ChatMessage, *response.Pagination, error) {
	ok, err := s.CanParticipate(ctx, claims, sectionID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrNotParticipant
	}

	page, perPage = clampPaging(page, perPage)
	messages, total, err := s.chatRepo.ListBySection(ctx, sectionID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if messages == nil {
		messages = []model.ChatMessage{}
	}
	return messages, buildPagination(page, perPage, total), nil
}
