package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/validation"
)

// MessageInput carries the body of a new message.
type MessageInput struct {
	Text string `json:"text"`
}

// MessageService provides message business logic.
type MessageService struct {
	messageRepo repository.MessageRepository
	followRepo  repository.FollowRepository
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, followRepo repository.FollowRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		followRepo:  followRepo,
	}
}

// CreateMessage stages a new message by userID. An unknown author fails the
// commit with INTEGRITY_ERROR.
func (s *MessageService) CreateMessage(_ context.Context, uow Stager, userID uint, in MessageInput) (*models.Message, error) {
	if err := validation.ValidateMessageText(in.Text, models.MaxMessageLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	msg := &models.Message{Text: in.Text, UserID: userID}
	uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Messages.Create(ctx, msg)
	})
	return msg, nil
}

// GetMessage returns a message with its author.
func (s *MessageService) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

// UserMessages returns userID's newest messages.
func (s *MessageService) UserMessages(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	return s.messageRepo.ListByUser(ctx, userID, limit)
}

// CountMessages returns how many messages userID has posted.
func (s *MessageService) CountMessages(ctx context.Context, userID uint) (int64, error) {
	return s.messageRepo.CountByUser(ctx, userID)
}

// DeleteMessage stages deletion of messageID. Only its author may delete it.
func (s *MessageService) DeleteMessage(ctx context.Context, uow Stager, userID, messageID uint) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.UserID != userID {
		return models.NewUnauthorizedError("Access unauthorized.")
	}

	uow.Stage(func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Messages.Delete(ctx, messageID)
	})
	return nil
}

// HomeTimeline returns the newest messages written by userID or anyone userID
// follows.
func (s *MessageService) HomeTimeline(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}
	ids, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, userID)
	return s.messageRepo.Timeline(ctx, ids, limit)
}
