package place

import (
	"context"
	"time"

	"hobby-lobby/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PlaceRepository interface {
	Create(ctx context.Context, place *Place) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Place, error)
	FindByNameAndAddress(ctx context.Context, name, address string) (*Place, error)
	Find(ctx context.Context, filter bson.M) ([]Place, error)
	// AddReview appends a review and bumps the rating aggregates in one
	// conditional update; false means the user already reviewed this place.
	AddReview(ctx context.Context, placeID primitive.ObjectID, review Review) (bool, error)
	RemoveReview(ctx context.Context, placeID, userID primitive.ObjectID, rating int) error
}

type PlaceRepositoryImpl struct {
	collection *mongo.Collection
}

func NewPlaceRepository(db *database.MongodbDB) PlaceRepository {
	return &PlaceRepositoryImpl{
		collection: db.DB.Collection("places"),
	}
}

func (r *PlaceRepositoryImpl) Create(ctx context.Context, place *Place) error {
	place.CreatedAt = time.Now()
	place.UpdatedAt = time.Now()

	if place.Tags == nil {
		place.Tags = []string{}
	}
	if place.Reviews == nil {
		place.Reviews = []Review{}
	}

	result, err := r.collection.InsertOne(ctx, place)
	if err != nil {
		return err
	}

	place.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *PlaceRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Place, error) {
	var place Place
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&place)
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func (r *PlaceRepositoryImpl) FindByNameAndAddress(ctx context.Context, name, address string) (*Place, error) {
	var place Place
	err := r.collection.FindOne(ctx, bson.M{"place_name": name, "address": address}).Decode(&place)
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func (r *PlaceRepositoryImpl) Find(ctx context.Context, filter bson.M) ([]Place, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	places := []Place{}
	if err := cursor.All(ctx, &places); err != nil {
		return nil, err
	}

	return places, nil
}

func (r *PlaceRepositoryImpl) AddReview(ctx context.Context, placeID primitive.ObjectID, review Review) (bool, error) {
	filter := bson.M{
		"_id": placeID,
		"reviews.user_id": bson.M{
			"$ne": review.UserID,
		},
	}
	update := bson.M{
		"$push": bson.M{"reviews": review},
		"$inc": bson.M{
			"review_count": 1,
			"rating_sum":   review.Rating,
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *PlaceRepositoryImpl) RemoveReview(ctx context.Context, placeID, userID primitive.ObjectID, rating int) error {
	filter := bson.M{"_id": placeID, "reviews.user_id": userID}
	update := bson.M{
		"$pull": bson.M{"reviews": bson.M{"user_id": userID}},
		"$inc": bson.M{
			"review_count": -1,
			"rating_sum":   -rating,
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
