package chat

import (
	"context"
	"time"

	"hobby-lobby/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *Chat) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Chat, error)
	FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]Chat, error)
	FindPrivateBetween(ctx context.Context, a, b primitive.ObjectID) (*Chat, error)
	FindByGroup(ctx context.Context, groupID primitive.ObjectID) (*Chat, error)
	AddParticipant(ctx context.Context, chatID, userID primitive.ObjectID) error
	RemoveParticipant(ctx context.Context, chatID, userID primitive.ObjectID) error
	SetLastMessage(ctx context.Context, chatID primitive.ObjectID, preview string) error
	Delete(ctx context.Context, chatID primitive.ObjectID) error

	CreateMessage(ctx context.Context, message *Message) error
	FindMessages(ctx context.Context, chatID primitive.ObjectID) ([]Message, error)
	DeleteMessagesByChat(ctx context.Context, chatID primitive.ObjectID) error
}

type ChatRepositoryImpl struct {
	chats    *mongo.Collection
	messages *mongo.Collection
}

func NewChatRepository(db *database.MongodbDB) ChatRepository {
	return &ChatRepositoryImpl{
		chats:    db.DB.Collection("chats"),
		messages: db.DB.Collection("messages"),
	}
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, chat *Chat) error {
	chat.CreatedAt = time.Now()
	chat.UpdatedAt = time.Now()

	if chat.Participants == nil {
		chat.Participants = []primitive.ObjectID{}
	}

	result, err := r.chats.InsertOne(ctx, chat)
	if err != nil {
		return err
	}

	chat.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ChatRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Chat, error) {
	var chat Chat
	err := r.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepositoryImpl) FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.chats.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	chats := []Chat{}
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}

	return chats, nil
}

func (r *ChatRepositoryImpl) FindPrivateBetween(ctx context.Context, a, b primitive.ObjectID) (*Chat, error) {
	filter := bson.M{
		"chat_type":    TypePrivate,
		"participants": bson.M{"$all": bson.A{a, b}},
	}

	var chat Chat
	err := r.chats.FindOne(ctx, filter).Decode(&chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepositoryImpl) FindByGroup(ctx context.Context, groupID primitive.ObjectID) (*Chat, error) {
	var chat Chat
	err := r.chats.FindOne(ctx, bson.M{"related_group_id": groupID}).Decode(&chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepositoryImpl) AddParticipant(ctx context.Context, chatID, userID primitive.ObjectID) error {
	_, err := r.chats.UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{
			"$addToSet": bson.M{"participants": userID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	return err
}

func (r *ChatRepositoryImpl) RemoveParticipant(ctx context.Context, chatID, userID primitive.ObjectID) error {
	_, err := r.chats.UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{
			"$pull": bson.M{"participants": userID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	return err
}

func (r *ChatRepositoryImpl) SetLastMessage(ctx context.Context, chatID primitive.ObjectID, preview string) error {
	_, err := r.chats.UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{"$set": bson.M{
			"last_message": preview,
			"updated_at":   time.Now(),
		}},
	)
	return err
}

func (r *ChatRepositoryImpl) Delete(ctx context.Context, chatID primitive.ObjectID) error {
	_, err := r.chats.DeleteOne(ctx, bson.M{"_id": chatID})
	return err
}

func (r *ChatRepositoryImpl) CreateMessage(ctx context.Context, message *Message) error {
	message.CreatedAt = time.Now()

	result, err := r.messages.InsertOne(ctx, message)
	if err != nil {
		return err
	}

	message.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ChatRepositoryImpl) FindMessages(ctx context.Context, chatID primitive.ObjectID) ([]Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.messages.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *ChatRepositoryImpl) DeleteMessagesByChat(ctx context.Context, chatID primitive.ObjectID) error {
	_, err := r.messages.DeleteMany(ctx, bson.M{"chat_id": chatID})
	return err
}
