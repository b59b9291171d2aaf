package chat

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatType string

const (
	TypePrivate ChatType = "private"
	TypeGroup   ChatType = "group"
)

type Chat struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"chatId"`
	ChatType     ChatType             `bson:"chat_type" json:"chatType"`
	ChatName     string               `bson:"chat_name" json:"chatName"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	// RelatedGroupID links a group chat back to its group; nil for private chats.
	RelatedGroupID *primitive.ObjectID `bson:"related_group_id,omitempty" json:"relatedGroupId,omitempty"`
	LastMessage    string              `bson:"last_message" json:"lastMessage"`
	CreatedAt      time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updatedAt"`
}

func (c *Chat) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"messageId"`
	ChatID    primitive.ObjectID `bson:"chat_id" json:"chatId"`
	SenderID  primitive.ObjectID `bson:"sender_id" json:"senderId"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
