package user

import (
	"context"
	"time"

	"hobby-lobby/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error)
	FindByUniqueName(ctx context.Context, uniqueName string) (*User, error)
	FindByEmailOrUniqueName(ctx context.Context, identifier string) (*User, error)
	ExistsByEmailOrUniqueName(ctx context.Context, email, uniqueName string) (bool, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*User, error)
	SetVerified(ctx context.Context, id primitive.ObjectID) error
	AddSavedGroup(ctx context.Context, userID, groupID primitive.ObjectID) error
	RemoveSavedGroup(ctx context.Context, userID, groupID primitive.ObjectID) error
	AddFriendship(ctx context.Context, a, b primitive.ObjectID) error
	RemoveFriendship(ctx context.Context, a, b primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserRepositoryImpl struct {
	collection *mongo.Collection
}

func NewUserRepository(db *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		collection: db.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if user.Hobbies == nil {
		user.Hobbies = []string{}
	}
	if user.SavedGroups == nil {
		user.SavedGroups = []primitive.ObjectID{}
	}
	if user.SavedFriends == nil {
		user.SavedFriends = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error) {
	if len(ids) == 0 {
		return []User{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepositoryImpl) FindByUniqueName(ctx context.Context, uniqueName string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"unique_name": uniqueName}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmailOrUniqueName(ctx context.Context, identifier string) (*User, error) {
	var user User
	filter := bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"unique_name": identifier},
	}}
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) ExistsByEmailOrUniqueName(ctx context.Context, email, uniqueName string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"unique_name": uniqueName},
	}}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*User, error) {
	fields["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

func (r *UserRepositoryImpl) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_verified": true, "updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *UserRepositoryImpl) AddSavedGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"saved_groups": groupID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

func (r *UserRepositoryImpl) RemoveSavedGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"saved_groups": groupID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

func (r *UserRepositoryImpl) AddFriendship(ctx context.Context, a, b primitive.ObjectID) error {
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": a}, bson.M{"$addToSet": bson.M{"saved_friends": b}}); err != nil {
		return err
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": b}, bson.M{"$addToSet": bson.M{"saved_friends": a}})
	return err
}

func (r *UserRepositoryImpl) RemoveFriendship(ctx context.Context, a, b primitive.ObjectID) error {
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": a}, bson.M{"$pull": bson.M{"saved_friends": b}}); err != nil {
		return err
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": b}, bson.M{"$pull": bson.M{"saved_friends": a}})
	return err
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
