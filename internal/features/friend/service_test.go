package friend

import (
	"context"
	"testing"

	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/features/notification"
	"hobby-lobby/internal/features/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRequestRepo struct {
	requests map[primitive.ObjectID]*FriendRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[primitive.ObjectID]*FriendRequest{}}
}

func (f *fakeRequestRepo) Create(ctx context.Context, request *FriendRequest) error {
	request.ID = primitive.NewObjectID()
	request.Status = StatusPending
	stored := *request
	f.requests[request.ID] = &stored
	return nil
}

func (f *fakeRequestRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*FriendRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRequestRepo) FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (*FriendRequest, error) {
	for _, r := range f.requests {
		if r.Status != StatusPending {
			continue
		}
		if (r.Requester == a && r.Recipient == b) || (r.Requester == b && r.Recipient == a) {
			copied := *r
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeRequestRepo) FindPendingForRecipient(ctx context.Context, recipient primitive.ObjectID) ([]FriendRequest, error) {
	result := []FriendRequest{}
	for _, r := range f.requests {
		if r.Recipient == recipient && r.Status == StatusPending {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeRequestRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status RequestStatus) error {
	r, ok := f.requests[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	r.Status = status
	return nil
}

func (f *fakeRequestRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(f.requests, id)
	return nil
}

// friendUserRepo is the slice of user.UserRepository this package touches.
type friendUserRepo struct {
	users map[primitive.ObjectID]*user.User
}

func newFriendUserRepo(ids ...primitive.ObjectID) *friendUserRepo {
	repo := &friendUserRepo{users: map[primitive.ObjectID]*user.User{}}
	for _, id := range ids {
		repo.users[id] = &user.User{ID: id, DisplayName: "User " + id.Hex()[:6]}
	}
	return repo
}

func (f *friendUserRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (f *friendUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *u
	return &copied, nil
}

func (f *friendUserRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]user.User, error) {
	return nil, nil
}

func (f *friendUserRepo) FindByUniqueName(ctx context.Context, uniqueName string) (*user.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (f *friendUserRepo) FindByEmailOrUniqueName(ctx context.Context, identifier string) (*user.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (f *friendUserRepo) ExistsByEmailOrUniqueName(ctx context.Context, email, uniqueName string) (bool, error) {
	return false, nil
}

func (f *friendUserRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*user.User, error) {
	return f.FindByID(ctx, id)
}

func (f *friendUserRepo) SetVerified(ctx context.Context, id primitive.ObjectID) error { return nil }

func (f *friendUserRepo) AddSavedGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	return nil
}

func (f *friendUserRepo) RemoveSavedGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	return nil
}

func (f *friendUserRepo) AddFriendship(ctx context.Context, a, b primitive.ObjectID) error {
	f.users[a].SavedFriends = append(f.users[a].SavedFriends, b)
	f.users[b].SavedFriends = append(f.users[b].SavedFriends, a)
	return nil
}

func (f *friendUserRepo) RemoveFriendship(ctx context.Context, a, b primitive.ObjectID) error {
	return nil
}

func (f *friendUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

type silentDispatcher struct{}

func (silentDispatcher) Dispatch(recipients []primitive.ObjectID, notifType notification.NotificationType, title, message string, relatedID *primitive.ObjectID) {
}

func TestSendRequest(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	users := newFriendUserRepo(alice, bob)
	service := NewFriendService(newFakeRequestRepo(), users, silentDispatcher{})
	ctx := context.Background()

	t.Run("self request is rejected", func(t *testing.T) {
		_, err := service.SendRequest(ctx, alice, alice)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	request, err := service.SendRequest(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, request.Status)

	t.Run("duplicate pending request conflicts either way", func(t *testing.T) {
		_, err := service.SendRequest(ctx, alice, bob)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))

		_, err = service.SendRequest(ctx, bob, alice)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})
}

func TestRespondAccept(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	users := newFriendUserRepo(alice, bob)
	service := NewFriendService(newFakeRequestRepo(), users, silentDispatcher{})
	ctx := context.Background()

	request, err := service.SendRequest(ctx, alice, bob)
	require.NoError(t, err)

	t.Run("only the recipient may respond", func(t *testing.T) {
		err := service.Respond(ctx, alice, request.ID, true)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	require.NoError(t, service.Respond(ctx, bob, request.ID, true))

	t.Run("friendship is symmetric", func(t *testing.T) {
		status, err := service.RelationStatus(ctx, alice, bob)
		require.NoError(t, err)
		assert.Equal(t, RelationFriends, status)

		status, err = service.RelationStatus(ctx, bob, alice)
		require.NoError(t, err)
		assert.Equal(t, RelationFriends, status)
	})

	t.Run("sending again reports already friends", func(t *testing.T) {
		_, err := service.SendRequest(ctx, alice, bob)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestRespondReject(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	users := newFriendUserRepo(alice, bob)
	repo := newFakeRequestRepo()
	service := NewFriendService(repo, users, silentDispatcher{})
	ctx := context.Background()

	request, err := service.SendRequest(ctx, alice, bob)
	require.NoError(t, err)

	require.NoError(t, service.Respond(ctx, bob, request.ID, false))
	assert.Empty(t, repo.requests, "rejected requests are removed")

	status, err := service.RelationStatus(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, RelationNone, status)
}

func TestRelationStatusDirections(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	users := newFriendUserRepo(alice, bob)
	service := NewFriendService(newFakeRequestRepo(), users, silentDispatcher{})
	ctx := context.Background()

	_, err := service.SendRequest(ctx, alice, bob)
	require.NoError(t, err)

	status, err := service.RelationStatus(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, RelationSent, status)

	status, err = service.RelationStatus(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, RelationReceived, status)
}
