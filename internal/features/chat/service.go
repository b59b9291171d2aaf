package chat

import (
	"context"
	"strings"

	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type PostMessageInput struct {
	Content string `json:"content"`
}

type ChatService interface {
	ListChats(ctx context.Context, userID primitive.ObjectID) ([]Chat, error)
	// OpenPrivateChat returns the existing private chat between the two
	// users, creating it on first use.
	OpenPrivateChat(ctx context.Context, userID, otherID primitive.ObjectID) (*Chat, error)
	ListMessages(ctx context.Context, chatID, userID primitive.ObjectID) ([]Message, error)
	PostMessage(ctx context.Context, chatID, senderID primitive.ObjectID, input PostMessageInput) (*Message, error)

	// Group chat lifecycle, driven by the group feature.
	CreateGroupChat(ctx context.Context, groupID primitive.ObjectID, name string, participants []primitive.ObjectID) error
	DeleteGroupChat(ctx context.Context, groupID primitive.ObjectID) error
	AddParticipant(ctx context.Context, groupID, userID primitive.ObjectID) error
	RemoveParticipant(ctx context.Context, groupID, userID primitive.ObjectID) error
}

type ChatServiceImpl struct {
	repo       ChatRepository
	dispatcher notification.Dispatcher
	logger     *zap.Logger
}

func NewChatService(repo ChatRepository, dispatcher notification.Dispatcher, logger *zap.Logger) ChatService {
	return &ChatServiceImpl{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *ChatServiceImpl) ListChats(ctx context.Context, userID primitive.ObjectID) ([]Chat, error) {
	return s.repo.FindByParticipant(ctx, userID)
}

func (s *ChatServiceImpl) OpenPrivateChat(ctx context.Context, userID, otherID primitive.ObjectID) (*Chat, error) {
	if userID == otherID {
		return nil, apperr.Validation("Cannot open a chat with yourself")
	}

	existing, err := s.repo.FindPrivateBetween(ctx, userID, otherID)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	chat := &Chat{
		ChatType:     TypePrivate,
		Participants: []primitive.ObjectID{userID, otherID},
	}
	if err := s.repo.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatServiceImpl) requireParticipant(ctx context.Context, chatID, userID primitive.ObjectID) (*Chat, error) {
	chat, err := s.repo.FindByID(ctx, chatID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("Chat not found")
		}
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, apperr.Forbidden("You are not a participant of this chat")
	}
	return chat, nil
}

func (s *ChatServiceImpl) ListMessages(ctx context.Context, chatID, userID primitive.ObjectID) ([]Message, error) {
	if _, err := s.requireParticipant(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return s.repo.FindMessages(ctx, chatID)
}

func (s *ChatServiceImpl) PostMessage(ctx context.Context, chatID, senderID primitive.ObjectID, input PostMessageInput) (*Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, apperr.Validation("Message content is required")
	}

	chat, err := s.requireParticipant(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}

	message := &Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if err := s.repo.SetLastMessage(ctx, chatID, preview(content)); err != nil {
		s.logger.Warn("failed to update chat preview",
			zap.String("chatId", chatID.Hex()),
			zap.Error(err),
		)
	}

	recipients := make([]primitive.ObjectID, 0, len(chat.Participants))
	for _, p := range chat.Participants {
		if p != senderID {
			recipients = append(recipients, p)
		}
	}
	title := "New message"
	if chat.ChatType == TypeGroup {
		title = "New message in " + chat.ChatName
	}
	s.dispatcher.Dispatch(recipients, notification.NotificationTypeMessage, title, preview(content), &chatID)

	return message, nil
}

// preview trims message content for the chat list.
func preview(content string) string {
	const max = 80
	if len(content) <= max {
		return content
	}
	return content[:max] + "…"
}

func (s *ChatServiceImpl) CreateGroupChat(ctx context.Context, groupID primitive.ObjectID, name string, participants []primitive.ObjectID) error {
	gid := groupID
	chat := &Chat{
		ChatType:       TypeGroup,
		ChatName:       name,
		Participants:   participants,
		RelatedGroupID: &gid,
	}
	return s.repo.Create(ctx, chat)
}

func (s *ChatServiceImpl) DeleteGroupChat(ctx context.Context, groupID primitive.ObjectID) error {
	chat, err := s.repo.FindByGroup(ctx, groupID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}

	if err := s.repo.DeleteMessagesByChat(ctx, chat.ID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, chat.ID)
}

func (s *ChatServiceImpl) AddParticipant(ctx context.Context, groupID, userID primitive.ObjectID) error {
	chat, err := s.repo.FindByGroup(ctx, groupID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}
	return s.repo.AddParticipant(ctx, chat.ID, userID)
}

func (s *ChatServiceImpl) RemoveParticipant(ctx context.Context, groupID, userID primitive.ObjectID) error {
	chat, err := s.repo.FindByGroup(ctx, groupID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}
	return s.repo.RemoveParticipant(ctx, chat.ID, userID)
}
