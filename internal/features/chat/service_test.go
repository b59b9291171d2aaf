package chat

import (
	"context"
	"sort"
	"testing"
	"time"

	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/features/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeChatRepo struct {
	chats    map[primitive.ObjectID]*Chat
	messages map[primitive.ObjectID][]Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:    map[primitive.ObjectID]*Chat{},
		messages: map[primitive.ObjectID][]Message{},
	}
}

func (f *fakeChatRepo) Create(ctx context.Context, chat *Chat) error {
	chat.ID = primitive.NewObjectID()
	chat.CreatedAt = time.Now()
	chat.UpdatedAt = chat.CreatedAt
	stored := *chat
	f.chats[chat.ID] = &stored
	return nil
}

func (f *fakeChatRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Chat, error) {
	c, ok := f.chats[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *c
	return &copied, nil
}

func (f *fakeChatRepo) FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]Chat, error) {
	result := []Chat{}
	for _, c := range f.chats {
		if c.HasParticipant(userID) {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result, nil
}

func (f *fakeChatRepo) FindPrivateBetween(ctx context.Context, a, b primitive.ObjectID) (*Chat, error) {
	for _, c := range f.chats {
		if c.ChatType == TypePrivate && c.HasParticipant(a) && c.HasParticipant(b) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeChatRepo) FindByGroup(ctx context.Context, groupID primitive.ObjectID) (*Chat, error) {
	for _, c := range f.chats {
		if c.RelatedGroupID != nil && *c.RelatedGroupID == groupID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeChatRepo) AddParticipant(ctx context.Context, chatID, userID primitive.ObjectID) error {
	c := f.chats[chatID]
	if !c.HasParticipant(userID) {
		c.Participants = append(c.Participants, userID)
	}
	return nil
}

func (f *fakeChatRepo) RemoveParticipant(ctx context.Context, chatID, userID primitive.ObjectID) error {
	c := f.chats[chatID]
	participants := c.Participants[:0]
	for _, p := range c.Participants {
		if p != userID {
			participants = append(participants, p)
		}
	}
	c.Participants = participants
	return nil
}

func (f *fakeChatRepo) SetLastMessage(ctx context.Context, chatID primitive.ObjectID, preview string) error {
	c := f.chats[chatID]
	c.LastMessage = preview
	c.UpdatedAt = time.Now()
	return nil
}

func (f *fakeChatRepo) Delete(ctx context.Context, chatID primitive.ObjectID) error {
	delete(f.chats, chatID)
	return nil
}

func (f *fakeChatRepo) CreateMessage(ctx context.Context, message *Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	f.messages[message.ChatID] = append(f.messages[message.ChatID], *message)
	return nil
}

func (f *fakeChatRepo) FindMessages(ctx context.Context, chatID primitive.ObjectID) ([]Message, error) {
	return append([]Message{}, f.messages[chatID]...), nil
}

func (f *fakeChatRepo) DeleteMessagesByChat(ctx context.Context, chatID primitive.ObjectID) error {
	delete(f.messages, chatID)
	return nil
}

type recordingDispatcher struct {
	calls []dispatchedNotification
}

type dispatchedNotification struct {
	recipients []primitive.ObjectID
	notifType  notification.NotificationType
}

func (r *recordingDispatcher) Dispatch(recipients []primitive.ObjectID, notifType notification.NotificationType, title, message string, relatedID *primitive.ObjectID) {
	r.calls = append(r.calls, dispatchedNotification{recipients: recipients, notifType: notifType})
}

func newChatService() (ChatService, *fakeChatRepo, *recordingDispatcher) {
	repo := newFakeChatRepo()
	dispatcher := &recordingDispatcher{}
	return NewChatService(repo, dispatcher, zap.NewNop()), repo, dispatcher
}

func TestOpenPrivateChatDedupes(t *testing.T) {
	service, _, _ := newChatService()
	ctx := context.Background()

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	first, err := service.OpenPrivateChat(ctx, alice, bob)
	require.NoError(t, err)

	// Same pair in either order resolves to the same chat.
	second, err := service.OpenPrivateChat(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = service.OpenPrivateChat(ctx, alice, alice)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestPostMessage(t *testing.T) {
	service, repo, dispatcher := newChatService()
	ctx := context.Background()

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	chat, err := service.OpenPrivateChat(ctx, alice, bob)
	require.NoError(t, err)

	message, err := service.PostMessage(ctx, chat.ID, alice, PostMessageInput{Content: "see you at 7?"})
	require.NoError(t, err)
	assert.Equal(t, alice, message.SenderID)

	t.Run("preview lands on the chat", func(t *testing.T) {
		current, err := repo.FindByID(ctx, chat.ID)
		require.NoError(t, err)
		assert.Equal(t, "see you at 7?", current.LastMessage)
	})

	t.Run("only the other side is notified", func(t *testing.T) {
		require.Len(t, dispatcher.calls, 1)
		assert.Equal(t, []primitive.ObjectID{bob}, dispatcher.calls[0].recipients)
		assert.Equal(t, notification.NotificationTypeMessage, dispatcher.calls[0].notifType)
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		_, err := service.PostMessage(ctx, chat.ID, alice, PostMessageInput{Content: "   "})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("outsiders cannot post or read", func(t *testing.T) {
		stranger := primitive.NewObjectID()
		_, err := service.PostMessage(ctx, chat.ID, stranger, PostMessageInput{Content: "hi"})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

		_, err = service.ListMessages(ctx, chat.ID, stranger)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("participants read in order", func(t *testing.T) {
		_, err := service.PostMessage(ctx, chat.ID, bob, PostMessageInput{Content: "yes"})
		require.NoError(t, err)

		messages, err := service.ListMessages(ctx, chat.ID, bob)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "see you at 7?", messages[0].Content)
		assert.Equal(t, "yes", messages[1].Content)
	})
}

func TestGroupChatLifecycle(t *testing.T) {
	service, repo, _ := newChatService()
	ctx := context.Background()

	groupID := primitive.NewObjectID()
	creator := primitive.NewObjectID()

	require.NoError(t, service.CreateGroupChat(ctx, groupID, "Boulder Crew", []primitive.ObjectID{creator}))

	chat, err := repo.FindByGroup(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, TypeGroup, chat.ChatType)
	require.NotNil(t, chat.RelatedGroupID)
	assert.Equal(t, groupID, *chat.RelatedGroupID)

	member := primitive.NewObjectID()
	require.NoError(t, service.AddParticipant(ctx, groupID, member))

	chat, err = repo.FindByGroup(ctx, groupID)
	require.NoError(t, err)
	assert.True(t, chat.HasParticipant(member))

	require.NoError(t, service.RemoveParticipant(ctx, groupID, member))
	chat, err = repo.FindByGroup(ctx, groupID)
	require.NoError(t, err)
	assert.False(t, chat.HasParticipant(member))

	_, err = service.PostMessage(ctx, chat.ID, creator, PostMessageInput{Content: "welcome"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteGroupChat(ctx, groupID))
	_, err = repo.FindByGroup(ctx, groupID)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	assert.Empty(t, repo.messages[chat.ID])

	// Deleting again is a no-op, matching the cascade caller's expectations.
	assert.NoError(t, service.DeleteGroupChat(ctx, groupID))
}
