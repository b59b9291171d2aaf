package friend

import (
	"context"
	"fmt"

	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/features/notification"
	"hobby-lobby/internal/features/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type FriendService interface {
	SendRequest(ctx context.Context, requesterID, recipientID primitive.ObjectID) (*FriendRequest, error)
	IncomingRequests(ctx context.Context, userID primitive.ObjectID) ([]FriendRequest, error)
	RelationStatus(ctx context.Context, myID, otherID primitive.ObjectID) (string, error)
	Respond(ctx context.Context, actorID, requestID primitive.ObjectID, accept bool) error
}

type FriendServiceImpl struct {
	repo       FriendRequestRepository
	userRepo   user.UserRepository
	dispatcher notification.Dispatcher
}

func NewFriendService(repo FriendRequestRepository, userRepo user.UserRepository, dispatcher notification.Dispatcher) FriendService {
	return &FriendServiceImpl{
		repo:       repo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
	}
}

func (s *FriendServiceImpl) SendRequest(ctx context.Context, requesterID, recipientID primitive.ObjectID) (*FriendRequest, error) {
	if requesterID == recipientID {
		return nil, apperr.Validation("Cannot send a friend request to yourself")
	}

	requester, err := s.userRepo.FindByID(ctx, requesterID)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	for _, friendID := range requester.SavedFriends {
		if friendID == recipientID {
			return nil, apperr.Validation("Already friends")
		}
	}

	if _, err := s.repo.FindPendingBetween(ctx, requesterID, recipientID); err == nil {
		return nil, apperr.Conflict(apperr.CodeDuplicate, "A pending request already exists")
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	request := FriendRequest{
		Requester: requesterID,
		Recipient: recipientID,
	}
	if err := s.repo.Create(ctx, &request); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(
		[]primitive.ObjectID{recipientID},
		notification.NotificationTypeFriend,
		"New friend request",
		fmt.Sprintf("%s sent you a friend request", requester.DisplayName),
		&request.ID,
	)

	return &request, nil
}

func (s *FriendServiceImpl) IncomingRequests(ctx context.Context, userID primitive.ObjectID) ([]FriendRequest, error) {
	return s.repo.FindPendingForRecipient(ctx, userID)
}

func (s *FriendServiceImpl) RelationStatus(ctx context.Context, myID, otherID primitive.ObjectID) (string, error) {
	me, err := s.userRepo.FindByID(ctx, myID)
	if err == mongo.ErrNoDocuments {
		return "", apperr.NotFound("User not found")
	}
	if err != nil {
		return "", err
	}

	for _, friendID := range me.SavedFriends {
		if friendID == otherID {
			return RelationFriends, nil
		}
	}

	request, err := s.repo.FindPendingBetween(ctx, myID, otherID)
	if err == mongo.ErrNoDocuments {
		return RelationNone, nil
	}
	if err != nil {
		return "", err
	}

	if request.Requester == myID {
		return RelationSent, nil
	}
	return RelationReceived, nil
}

func (s *FriendServiceImpl) Respond(ctx context.Context, actorID, requestID primitive.ObjectID, accept bool) error {
	request, err := s.repo.FindByID(ctx, requestID)
	if err == mongo.ErrNoDocuments {
		return apperr.NotFound("Request not found")
	}
	if err != nil {
		return err
	}

	if request.Recipient != actorID {
		return apperr.Forbidden("Only the recipient can respond to this request")
	}
	if request.Status != StatusPending {
		return apperr.Conflict(apperr.CodeDuplicate, "Request already handled")
	}

	if !accept {
		return s.repo.Delete(ctx, requestID)
	}

	if err := s.repo.SetStatus(ctx, requestID, StatusAccepted); err != nil {
		return err
	}
	return s.userRepo.AddFriendship(ctx, request.Requester, request.Recipient)
}
