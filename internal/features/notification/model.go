package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeMessage NotificationType = "message"
	NotificationTypeJoin    NotificationType = "join"
	NotificationTypeVote    NotificationType = "vote"
	NotificationTypeFriend  NotificationType = "friend"
	NotificationTypeInfo    NotificationType = "info"
)

type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"userId"`
	Type      NotificationType    `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	RelatedID *primitive.ObjectID `bson:"related_id,omitempty" json:"relatedId,omitempty"`
	IsRead    bool                `bson:"is_read" json:"isRead"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
	ReadAt    *time.Time          `bson:"read_at,omitempty" json:"readAt,omitempty"`
}
