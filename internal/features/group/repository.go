package group

import (
	"context"
	"time"

	"hobby-lobby/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type GroupRepository interface {
	Create(ctx context.Context, group *Group) error
	FindAll(ctx context.Context) ([]Group, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Group, error)
	FindByMember(ctx context.Context, userID primitive.ObjectID) ([]Group, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error
	RemoveMember(ctx context.Context, groupID, userID primitive.ObjectID) error

	// Directory methods consumed by the meeting feature
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	IsMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error)
	MemberIDs(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error)
	AttachMeeting(ctx context.Context, groupID, meetingID primitive.ObjectID) error
	DetachMeeting(ctx context.Context, groupID, meetingID primitive.ObjectID) error
}

type GroupRepositoryImpl struct {
	collection *mongo.Collection
}

func NewGroupRepository(db *database.MongodbDB) GroupRepository {
	return &GroupRepositoryImpl{
		collection: db.DB.Collection("groups"),
	}
}

func (r *GroupRepositoryImpl) Create(ctx context.Context, group *Group) error {
	group.CreatedAt = time.Now()
	group.UpdatedAt = time.Now()

	if group.Meetings == nil {
		group.Meetings = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, group)
	if err != nil {
		return err
	}

	group.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *GroupRepositoryImpl) FindAll(ctx context.Context) ([]Group, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := []Group{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *GroupRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Group, error) {
	var group Group
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepositoryImpl) FindByMember(ctx context.Context, userID primitive.ObjectID) ([]Group, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"members": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := []Group{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *GroupRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (r *GroupRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *GroupRepositoryImpl) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": groupID}, update)
	return err
}

func (r *GroupRepositoryImpl) RemoveMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": groupID}, update)
	return err
}

func (r *GroupRepositoryImpl) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GroupRepositoryImpl) IsMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": groupID, "members": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GroupRepositoryImpl) MemberIDs(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	group, err := r.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return group.Members, nil
}

func (r *GroupRepositoryImpl) AttachMeeting(ctx context.Context, groupID, meetingID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"meetings": meetingID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": groupID}, update)
	return err
}

func (r *GroupRepositoryImpl) DetachMeeting(ctx context.Context, groupID, meetingID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"meetings": meetingID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": groupID}, update)
	return err
}
