package friend

import (
	"context"
	"time"

	"hobby-lobby/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FriendRequestRepository interface {
	Create(ctx context.Context, request *FriendRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*FriendRequest, error)
	FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (*FriendRequest, error)
	FindPendingForRecipient(ctx context.Context, recipient primitive.ObjectID) ([]FriendRequest, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status RequestStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type FriendRequestRepositoryImpl struct {
	collection *mongo.Collection
}

func NewFriendRequestRepository(db *database.MongodbDB) FriendRequestRepository {
	return &FriendRequestRepositoryImpl{
		collection: db.DB.Collection("friend_requests"),
	}
}

func (r *FriendRequestRepositoryImpl) Create(ctx context.Context, request *FriendRequest) error {
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	request.Status = StatusPending

	result, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return err
	}

	request.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *FriendRequestRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*FriendRequest, error) {
	var request FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *FriendRequestRepositoryImpl) FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (*FriendRequest, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"requester": a, "recipient": b},
			bson.M{"requester": b, "recipient": a},
		},
		"status": StatusPending,
	}

	var request FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *FriendRequestRepositoryImpl) FindPendingForRecipient(ctx context.Context, recipient primitive.ObjectID) ([]FriendRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"recipient": recipient, "status": StatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []FriendRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *FriendRequestRepositoryImpl) SetStatus(ctx context.Context, id primitive.ObjectID, status RequestStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *FriendRequestRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
