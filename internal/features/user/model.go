package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationPreferences struct {
	Email bool `bson:"email" json:"email"`
	Push  bool `bson:"push" json:"push"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"userId"`
	UniqueName     string             `bson:"unique_name" json:"uniqueName"`
	DisplayName    string             `bson:"display_name" json:"displayName"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password,omitempty" json:"-"`
	IsVerified     bool               `bson:"is_verified" json:"isVerified"`
	Role           string             `bson:"role" json:"role"`
	Description    string             `bson:"description" json:"description"`
	Hobbies        []string           `bson:"hobbies" json:"hobbies"`
	BirthDate      *time.Time         `bson:"birth_date,omitempty" json:"birthDate,omitempty"`
	PhoneNumber    string             `bson:"phone_number,omitempty" json:"phoneNumber,omitempty"`
	ProfilePicture string             `bson:"profile_picture" json:"profilePicture"`

	SavedGroups  []primitive.ObjectID `bson:"saved_groups" json:"savedGroups"`
	SavedFriends []primitive.ObjectID `bson:"saved_friends" json:"savedFriends"`

	IsPublic bool `bson:"is_public" json:"isPublic"`

	NotificationPreferences NotificationPreferences `bson:"notification_preferences" json:"notificationPreferences"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Summary is the public projection embedded in other resources
// (message senders, group members, meeting creators).
type Summary struct {
	UserID         primitive.ObjectID `json:"userId"`
	UniqueName     string             `json:"uniqueName"`
	DisplayName    string             `json:"displayName"`
	ProfilePicture string             `json:"profilePicture"`
}

func (u *User) Summary() Summary {
	return Summary{
		UserID:         u.ID,
		UniqueName:     u.UniqueName,
		DisplayName:    u.DisplayName,
		ProfilePicture: u.ProfilePicture,
	}
}
