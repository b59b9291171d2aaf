package group

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is an interest group. The creator is always a member, and the
// members set is never empty.
type Group struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"groupId"`
	GroupName    string               `bson:"group_name" json:"groupName"`
	Description  string               `bson:"description" json:"description"`
	Duration     string               `bson:"duration" json:"duration"`
	Frequency    string               `bson:"frequency" json:"frequency"`
	IsRecruiting bool                 `bson:"is_recruiting" json:"isRecruiting"`
	Tags         []string             `bson:"tags" json:"tags"`
	CreatedBy    primitive.ObjectID   `bson:"created_by" json:"createdBy"`
	Members      []primitive.ObjectID `bson:"members" json:"members"`
	Meetings     []primitive.ObjectID `bson:"meetings" json:"meetings"`
	CreatedAt    time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updatedAt"`
}

func (g *Group) HasMember(userID primitive.ObjectID) bool {
	for _, member := range g.Members {
		if member == userID {
			return true
		}
	}
	return false
}
