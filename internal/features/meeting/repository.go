package meeting

import (
	"context"
	"time"

	"hobby-lobby/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *Meeting) error
	// FindByID resolves a meeting scoped to its group, so ids from other
	// groups never leak through.
	FindByID(ctx context.Context, groupID, meetingID primitive.ObjectID) (*Meeting, error)
	FindByGroup(ctx context.Context, groupID primitive.ObjectID) ([]Meeting, error)
	// UpdatePendingFields applies a partial $set only while the meeting is
	// still pending. Returns false when nothing matched.
	UpdatePendingFields(ctx context.Context, groupID, meetingID primitive.ObjectID, fields bson.M) (bool, error)
	Delete(ctx context.Context, groupID, meetingID primitive.ObjectID) error
	DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) error
	// AppendVote records a vote and bumps the matching tally counter in one
	// conditional update. The filter simultaneously asserts the meeting is
	// pending and the voter has no ledger entry yet, so concurrent casts
	// cannot produce duplicates or tally drift. Returns false when the
	// condition did not hold.
	AppendVote(ctx context.Context, groupID, meetingID primitive.ObjectID, vote Vote) (bool, error)
	// TransitionOnMajority flips a pending meeting into the terminal state
	// matching the response once the tally holds a strict majority of
	// totalMembers. The threshold check lives in the filter, making the
	// flip a compare-and-swap that fires at most once.
	TransitionOnMajority(ctx context.Context, groupID, meetingID primitive.ObjectID, response VoteResponse, totalMembers int) (bool, error)
	// RejectExpired closes voting on pending meetings dated before the
	// given day (ISO date strings compare lexicographically).
	RejectExpired(ctx context.Context, today string) (int64, error)
}

type MeetingRepositoryImpl struct {
	collection *mongo.Collection
}

func NewMeetingRepository(db *database.MongodbDB) MeetingRepository {
	return &MeetingRepositoryImpl{
		collection: db.DB.Collection("meetings"),
	}
}

func (r *MeetingRepositoryImpl) Create(ctx context.Context, meeting *Meeting) error {
	meeting.CreatedAt = time.Now()
	meeting.UpdatedAt = time.Now()

	if meeting.MemberVotes == nil {
		meeting.MemberVotes = []Vote{}
	}

	result, err := r.collection.InsertOne(ctx, meeting)
	if err != nil {
		return err
	}

	meeting.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MeetingRepositoryImpl) FindByID(ctx context.Context, groupID, meetingID primitive.ObjectID) (*Meeting, error) {
	var meeting Meeting
	err := r.collection.FindOne(ctx, bson.M{"_id": meetingID, "group": groupID}).Decode(&meeting)
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingRepositoryImpl) FindByGroup(ctx context.Context, groupID primitive.ObjectID) ([]Meeting, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "time", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{"group": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	meetings := []Meeting{}
	if err := cursor.All(ctx, &meetings); err != nil {
		return nil, err
	}

	return meetings, nil
}

func (r *MeetingRepositoryImpl) UpdatePendingFields(ctx context.Context, groupID, meetingID primitive.ObjectID, fields bson.M) (bool, error) {
	fields["updated_at"] = time.Now()

	filter := bson.M{
		"_id":    meetingID,
		"group":  groupID,
		"status": StatusPending,
	}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *MeetingRepositoryImpl) Delete(ctx context.Context, groupID, meetingID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": meetingID, "group": groupID})
	return err
}

func (r *MeetingRepositoryImpl) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"group": groupID})
	return err
}

func tallyField(response VoteResponse) string {
	switch response {
	case ResponseConfirmed:
		return "current_votes.confirmed"
	case ResponseRejected:
		return "current_votes.rejected"
	default:
		return "current_votes.proposedChange"
	}
}

func (r *MeetingRepositoryImpl) AppendVote(ctx context.Context, groupID, meetingID primitive.ObjectID, vote Vote) (bool, error) {
	filter := bson.M{
		"_id":    meetingID,
		"group":  groupID,
		"status": StatusPending,
		"member_votes.user_id": bson.M{
			"$ne": vote.UserID,
		},
	}
	update := bson.M{
		"$push": bson.M{"member_votes": vote},
		"$inc":  bson.M{tallyField(vote.Response): 1},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *MeetingRepositoryImpl) TransitionOnMajority(ctx context.Context, groupID, meetingID primitive.ObjectID, response VoteResponse, totalMembers int) (bool, error) {
	var target Status
	switch response {
	case ResponseConfirmed:
		target = StatusConfirmed
	case ResponseRejected:
		target = StatusRejected
	default:
		return false, nil
	}

	// Strict majority: count > totalMembers/2 (integer floor) is exactly
	// 2*count > totalMembers.
	filter := bson.M{
		"_id":    meetingID,
		"group":  groupID,
		"status": StatusPending,
		tallyField(response): bson.M{
			"$gt": totalMembers / 2,
		},
	}
	update := bson.M{
		"$set": bson.M{"status": target, "updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *MeetingRepositoryImpl) RejectExpired(ctx context.Context, today string) (int64, error) {
	filter := bson.M{
		"status": StatusPending,
		"date":   bson.M{"$lt": today},
	}
	update := bson.M{
		"$set": bson.M{"status": StatusRejected, "updated_at": time.Now()},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
