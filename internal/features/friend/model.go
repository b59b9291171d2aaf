package friend

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
)

// Relation values returned by the status endpoint.
const (
	RelationFriends  = "friends"
	RelationSent     = "sent"
	RelationReceived = "received"
	RelationNone     = "none"
)

type FriendRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"requestId"`
	Requester primitive.ObjectID `bson:"requester" json:"requester"`
	Recipient primitive.ObjectID `bson:"recipient" json:"recipient"`
	Status    RequestStatus      `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
