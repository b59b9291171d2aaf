package user

import (
	"context"

	"hobby-lobby/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProfilePatch carries the subset of profile fields a user may edit.
// Nil means "leave unchanged".
type ProfilePatch struct {
	DisplayName    *string  `json:"displayName"`
	Description    *string  `json:"description"`
	ProfilePicture *string  `json:"profilePicture"`
	Hobbies        []string `json:"hobbies"`
}

type UserService interface {
	GetProfile(ctx context.Context, id primitive.ObjectID) (*User, error)
	UpdateProfile(ctx context.Context, actorID, id primitive.ObjectID, patch ProfilePatch) (*User, error)
	SearchByHandle(ctx context.Context, handle string) (*Summary, error)
	SaveGroup(ctx context.Context, userID, groupID primitive.ObjectID) error
	UnsaveGroup(ctx context.Context, userID, groupID primitive.ObjectID) error
	ListFriends(ctx context.Context, userID primitive.ObjectID) ([]Summary, error)
	RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	DeleteAccount(ctx context.Context, actorID, id primitive.ObjectID) error
}

type UserServiceImpl struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{repo: repo}
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, id primitive.ObjectID) (*User, error) {
	usr, err := s.repo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("User not found")
	}
	return usr, err
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, actorID, id primitive.ObjectID, patch ProfilePatch) (*User, error) {
	if actorID != id {
		return nil, apperr.Forbidden("Cannot edit another user's profile")
	}

	if _, err := s.GetProfile(ctx, id); err != nil {
		return nil, err
	}

	fields := bson.M{}
	if patch.DisplayName != nil {
		if *patch.DisplayName == "" {
			return nil, apperr.Validation("displayName cannot be empty")
		}
		fields["display_name"] = *patch.DisplayName
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.ProfilePicture != nil {
		fields["profile_picture"] = *patch.ProfilePicture
	}
	if patch.Hobbies != nil {
		fields["hobbies"] = patch.Hobbies
	}

	if len(fields) == 0 {
		return s.GetProfile(ctx, id)
	}

	return s.repo.UpdateFields(ctx, id, fields)
}

func (s *UserServiceImpl) SearchByHandle(ctx context.Context, handle string) (*Summary, error) {
	if handle == "" {
		return nil, apperr.Validation("Query missing")
	}

	usr, err := s.repo.FindByUniqueName(ctx, handle)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	summary := usr.Summary()
	return &summary, nil
}

func (s *UserServiceImpl) SaveGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	return s.repo.AddSavedGroup(ctx, userID, groupID)
}

func (s *UserServiceImpl) UnsaveGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	return s.repo.RemoveSavedGroup(ctx, userID, groupID)
}

func (s *UserServiceImpl) ListFriends(ctx context.Context, userID primitive.ObjectID) ([]Summary, error) {
	usr, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends, err := s.repo.FindByIDs(ctx, usr.SavedFriends)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(friends))
	for i := range friends {
		summaries = append(summaries, friends[i].Summary())
	}
	return summaries, nil
}

func (s *UserServiceImpl) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	return s.repo.RemoveFriendship(ctx, userID, friendID)
}

func (s *UserServiceImpl) DeleteAccount(ctx context.Context, actorID, id primitive.ObjectID) error {
	if actorID != id {
		return apperr.Forbidden("Cannot delete another user's account")
	}

	if _, err := s.GetProfile(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
