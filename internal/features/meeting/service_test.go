package meeting

import (
	"context"
	"errors"
	"sort"
	"testing"

	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/features/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// fakeMeetingRepo keeps meetings in memory and mirrors the conditional
// update semantics of the Mongo implementation.
type fakeMeetingRepo struct {
	meetings map[primitive.ObjectID]*Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: map[primitive.ObjectID]*Meeting{}}
}

func (f *fakeMeetingRepo) Create(ctx context.Context, meeting *Meeting) error {
	meeting.ID = primitive.NewObjectID()
	if meeting.MemberVotes == nil {
		meeting.MemberVotes = []Vote{}
	}
	stored := *meeting
	f.meetings[meeting.ID] = &stored
	return nil
}

func (f *fakeMeetingRepo) FindByID(ctx context.Context, groupID, meetingID primitive.ObjectID) (*Meeting, error) {
	m, ok := f.meetings[meetingID]
	if !ok || m.GroupID != groupID {
		return nil, mongo.ErrNoDocuments
	}
	copied := *m
	copied.MemberVotes = append([]Vote(nil), m.MemberVotes...)
	return &copied, nil
}

func (f *fakeMeetingRepo) FindByGroup(ctx context.Context, groupID primitive.ObjectID) ([]Meeting, error) {
	result := []Meeting{}
	for _, m := range f.meetings {
		if m.GroupID == groupID {
			result = append(result, *m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].Time < result[j].Time
	})
	return result, nil
}

func (f *fakeMeetingRepo) UpdatePendingFields(ctx context.Context, groupID, meetingID primitive.ObjectID, fields bson.M) (bool, error) {
	m, ok := f.meetings[meetingID]
	if !ok || m.GroupID != groupID || m.Status != StatusPending {
		return false, nil
	}
	if v, ok := fields["date"]; ok {
		m.Date = v.(string)
	}
	if v, ok := fields["time"]; ok {
		m.Time = v.(string)
	}
	if v, ok := fields["place_id"]; ok {
		m.PlaceID = v.(primitive.ObjectID)
	}
	if v, ok := fields["description"]; ok {
		desc := v.(string)
		m.Description = &desc
	}
	return true, nil
}

func (f *fakeMeetingRepo) Delete(ctx context.Context, groupID, meetingID primitive.ObjectID) error {
	m, ok := f.meetings[meetingID]
	if ok && m.GroupID == groupID {
		delete(f.meetings, meetingID)
	}
	return nil
}

func (f *fakeMeetingRepo) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) error {
	for id, m := range f.meetings {
		if m.GroupID == groupID {
			delete(f.meetings, id)
		}
	}
	return nil
}

func (f *fakeMeetingRepo) AppendVote(ctx context.Context, groupID, meetingID primitive.ObjectID, vote Vote) (bool, error) {
	m, ok := f.meetings[meetingID]
	if !ok || m.GroupID != groupID || m.Status != StatusPending || m.HasVoted(vote.UserID) {
		return false, nil
	}
	m.MemberVotes = append(m.MemberVotes, vote)
	switch vote.Response {
	case ResponseConfirmed:
		m.CurrentVotes.Confirmed++
	case ResponseRejected:
		m.CurrentVotes.Rejected++
	default:
		m.CurrentVotes.ProposedChange++
	}
	return true, nil
}

func (f *fakeMeetingRepo) TransitionOnMajority(ctx context.Context, groupID, meetingID primitive.ObjectID, response VoteResponse, totalMembers int) (bool, error) {
	m, ok := f.meetings[meetingID]
	if !ok || m.GroupID != groupID || m.Status != StatusPending {
		return false, nil
	}
	var count int
	var target Status
	switch response {
	case ResponseConfirmed:
		count, target = m.CurrentVotes.Confirmed, StatusConfirmed
	case ResponseRejected:
		count, target = m.CurrentVotes.Rejected, StatusRejected
	default:
		return false, nil
	}
	if 2*count <= totalMembers {
		return false, nil
	}
	m.Status = target
	return true, nil
}

func (f *fakeMeetingRepo) RejectExpired(ctx context.Context, today string) (int64, error) {
	var n int64
	for _, m := range f.meetings {
		if m.Status == StatusPending && m.Date < today {
			m.Status = StatusRejected
			n++
		}
	}
	return n, nil
}

type fakeGroupDirectory struct {
	groupID  primitive.ObjectID
	members  []primitive.ObjectID
	attached []primitive.ObjectID
	detached []primitive.ObjectID
}

func (f *fakeGroupDirectory) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return id == f.groupID, nil
}

func (f *fakeGroupDirectory) IsMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	if groupID != f.groupID {
		return false, nil
	}
	for _, m := range f.members {
		if m == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroupDirectory) MemberIDs(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return f.members, nil
}

func (f *fakeGroupDirectory) AttachMeeting(ctx context.Context, groupID, meetingID primitive.ObjectID) error {
	f.attached = append(f.attached, meetingID)
	return nil
}

func (f *fakeGroupDirectory) DetachMeeting(ctx context.Context, groupID, meetingID primitive.ObjectID) error {
	f.detached = append(f.detached, meetingID)
	return nil
}

type fakeDispatcher struct {
	calls []dispatchCall
}

type dispatchCall struct {
	recipients []primitive.ObjectID
	notifType  notification.NotificationType
}

func (f *fakeDispatcher) Dispatch(recipients []primitive.ObjectID, notifType notification.NotificationType, title, message string, relatedID *primitive.ObjectID) {
	f.calls = append(f.calls, dispatchCall{recipients: recipients, notifType: notifType})
}

type fixture struct {
	repo       *fakeMeetingRepo
	groups     *fakeGroupDirectory
	dispatcher *fakeDispatcher
	service    MeetingService
	groupID    primitive.ObjectID
	members    []primitive.ObjectID
}

func newFixture(t *testing.T, memberCount int) *fixture {
	t.Helper()

	members := make([]primitive.ObjectID, memberCount)
	for i := range members {
		members[i] = primitive.NewObjectID()
	}

	repo := newFakeMeetingRepo()
	groups := &fakeGroupDirectory{groupID: primitive.NewObjectID(), members: members}
	dispatcher := &fakeDispatcher{}

	return &fixture{
		repo:       repo,
		groups:     groups,
		dispatcher: dispatcher,
		service:    NewMeetingService(repo, groups, dispatcher, zap.NewNop()),
		groupID:    groups.groupID,
		members:    members,
	}
}

func (f *fixture) createMeeting(t *testing.T) *Meeting {
	t.Helper()
	meeting, err := f.service.Create(context.Background(), f.groupID, f.members[0], CreateMeetingInput{
		Date:    "2026-09-10",
		Time:    "19:30",
		PlaceID: primitive.NewObjectID().Hex(),
	})
	require.NoError(t, err)
	return meeting
}

func strPtr(s string) *string { return &s }

func TestCreateMeeting(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	t.Run("snapshots membership and starts pending", func(t *testing.T) {
		meeting := f.createMeeting(t)

		assert.Equal(t, StatusPending, meeting.Status)
		assert.Equal(t, 3, meeting.TotalMembers)
		assert.Equal(t, 0, meeting.CurrentVotes.Sum())
		assert.Empty(t, meeting.MemberVotes)
		assert.Contains(t, f.groups.attached, meeting.ID)
	})

	t.Run("unknown group is 404", func(t *testing.T) {
		_, err := f.service.Create(ctx, primitive.NewObjectID(), f.members[0], CreateMeetingInput{
			Date: "2026-09-10", Time: "19:30", PlaceID: primitive.NewObjectID().Hex(),
		})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("non-member is 403", func(t *testing.T) {
		_, err := f.service.Create(ctx, f.groupID, primitive.NewObjectID(), CreateMeetingInput{
			Date: "2026-09-10", Time: "19:30", PlaceID: primitive.NewObjectID().Hex(),
		})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("rejects malformed date and time", func(t *testing.T) {
		_, err := f.service.Create(ctx, f.groupID, f.members[0], CreateMeetingInput{
			Date: "10.09.2026", Time: "19:30", PlaceID: primitive.NewObjectID().Hex(),
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		_, err = f.service.Create(ctx, f.groupID, f.members[0], CreateMeetingInput{
			Date: "2026-09-10", Time: "7pm", PlaceID: primitive.NewObjectID().Hex(),
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestCastVoteKeepsTallyInStepWithLedger(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	meeting := f.createMeeting(t)

	_, err := f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[0], CastVoteInput{Response: ResponseConfirmed})
	require.NoError(t, err)
	_, err = f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[1], CastVoteInput{Response: ResponseRejected})
	require.NoError(t, err)
	_, err = f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[2], CastVoteInput{
		Response:       ResponseProposedChange,
		ChangeProposal: &ChangeProposalInput{Date: strPtr("2026-09-12")},
	})
	require.NoError(t, err)

	current, err := f.service.Get(ctx, f.groupID, meeting.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, current.CurrentVotes.Confirmed)
	assert.Equal(t, 1, current.CurrentVotes.Rejected)
	assert.Equal(t, 1, current.CurrentVotes.ProposedChange)
	assert.Equal(t, len(current.MemberVotes), current.CurrentVotes.Sum())
}

func TestCastVoteDuplicate(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	meeting := f.createMeeting(t)

	_, err := f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[0], CastVoteInput{Response: ResponseConfirmed})
	require.NoError(t, err)

	// Second cast by the same member must not change anything, not even
	// with a different response.
	_, err = f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[0], CastVoteInput{Response: ResponseRejected})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeAlreadyVoted, appErr.Code)

	current, err := f.service.Get(ctx, f.groupID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.CurrentVotes.Confirmed)
	assert.Equal(t, 0, current.CurrentVotes.Rejected)
	assert.Len(t, current.MemberVotes, 1)
}

func TestCastVoteAfterVotingClosed(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	meeting := f.createMeeting(t)

	// Two members, so one confirmed vote intentionally does not reach a
	// strict majority yet; force the terminal state directly.
	f.repo.meetings[meeting.ID].Status = StatusConfirmed

	_, err := f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[1], CastVoteInput{Response: ResponseConfirmed})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeVotingClosed, appErr.Code)
}

func TestCastVoteNonMember(t *testing.T) {
	f := newFixture(t, 3)
	meeting := f.createMeeting(t)

	_, err := f.service.CastVote(context.Background(), f.groupID, meeting.ID, primitive.NewObjectID(), CastVoteInput{Response: ResponseConfirmed})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestCastVoteProposedChangePayload(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	t.Run("empty proposal is rejected", func(t *testing.T) {
		meeting := f.createMeeting(t)
		_, err := f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[1], CastVoteInput{
			Response: ResponseProposedChange,
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		_, err = f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[1], CastVoteInput{
			Response:       ResponseProposedChange,
			ChangeProposal: &ChangeProposalInput{},
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("unset fields stay null", func(t *testing.T) {
		meeting := f.createMeeting(t)
		vote, err := f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[1], CastVoteInput{
			Response:       ResponseProposedChange,
			ChangeProposal: &ChangeProposalInput{Time: strPtr("20:00")},
		})
		require.NoError(t, err)
		require.NotNil(t, vote.ChangeProposal)
		assert.Nil(t, vote.ChangeProposal.Date)
		assert.Nil(t, vote.ChangeProposal.PlaceID)
		assert.Equal(t, "20:00", *vote.ChangeProposal.Time)
	})

	t.Run("proposal ignored for plain responses", func(t *testing.T) {
		meeting := f.createMeeting(t)
		vote, err := f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[1], CastVoteInput{
			Response:       ResponseConfirmed,
			ChangeProposal: &ChangeProposalInput{Date: strPtr("2026-09-12")},
		})
		require.NoError(t, err)
		assert.Nil(t, vote.ChangeProposal)
	})

	t.Run("invalid proposal placeId is rejected", func(t *testing.T) {
		meeting := f.createMeeting(t)
		_, err := f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[1], CastVoteInput{
			Response:       ResponseProposedChange,
			ChangeProposal: &ChangeProposalInput{PlaceID: strPtr("not-an-id")},
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestMajorityTransition(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	meeting := f.createMeeting(t)

	_, err := f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[0], CastVoteInput{Response: ResponseConfirmed})
	require.NoError(t, err)

	current, err := f.service.Get(ctx, f.groupID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, current.Status, "one of three votes is no majority")

	_, err = f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[1], CastVoteInput{Response: ResponseConfirmed})
	require.NoError(t, err)

	current, err = f.service.Get(ctx, f.groupID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, current.Status)

	// Every member is told about the outcome.
	require.Len(t, f.dispatcher.calls, 1)
	assert.Equal(t, notification.NotificationTypeVote, f.dispatcher.calls[0].notifType)
	assert.Equal(t, f.members, f.dispatcher.calls[0].recipients)
}

func TestRejectionMajorityTransition(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	meeting := f.createMeeting(t)

	_, err := f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[0], CastVoteInput{Response: ResponseRejected})
	require.NoError(t, err)

	current, err := f.service.Get(ctx, f.groupID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, current.Status, "one of two is not a strict majority")

	_, err = f.service.CastVote(ctx, f.groupID, meeting.ID, f.members[1], CastVoteInput{Response: ResponseRejected})
	require.NoError(t, err)

	current, err = f.service.Get(ctx, f.groupID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, current.Status)
}

func TestProposedChangeNeverTransitions(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	meeting := f.createMeeting(t)

	for _, member := range f.members {
		_, err := f.service.CastVote(ctx, f.groupID, meeting.ID, member, CastVoteInput{
			Response:       ResponseProposedChange,
			ChangeProposal: &ChangeProposalInput{Time: strPtr("21:00")},
		})
		require.NoError(t, err)
	}

	current, err := f.service.Get(ctx, f.groupID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, current.Status)
	assert.Empty(t, f.dispatcher.calls)
}

func TestUpdateMeeting(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	t.Run("partial patch leaves other fields alone", func(t *testing.T) {
		meeting := f.createMeeting(t)
		updated, err := f.service.Update(ctx, f.groupID, meeting.ID, f.members[0], MeetingPatch{
			Time: strPtr("21:15"),
		})
		require.NoError(t, err)
		assert.Equal(t, "21:15", updated.Time)
		assert.Equal(t, meeting.Date, updated.Date)
		assert.Equal(t, meeting.PlaceID, updated.PlaceID)
	})

	t.Run("terminal meeting reports locked before forbidden", func(t *testing.T) {
		meeting := f.createMeeting(t)
		f.repo.meetings[meeting.ID].Status = StatusConfirmed

		// A non-creator against a locked meeting sees the lock, not 403.
		_, err := f.service.Update(ctx, f.groupID, meeting.ID, f.members[1], MeetingPatch{Time: strPtr("21:15")})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.CodeMeetingLocked, appErr.Code)
	})

	t.Run("only the creator can edit", func(t *testing.T) {
		meeting := f.createMeeting(t)
		_, err := f.service.Update(ctx, f.groupID, meeting.ID, f.members[1], MeetingPatch{Time: strPtr("21:15")})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("unknown meeting is 404", func(t *testing.T) {
		_, err := f.service.Update(ctx, f.groupID, primitive.NewObjectID(), f.members[0], MeetingPatch{Time: strPtr("21:15")})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestDeleteMeeting(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	t.Run("creator can delete a terminal meeting", func(t *testing.T) {
		meeting := f.createMeeting(t)
		f.repo.meetings[meeting.ID].Status = StatusRejected

		require.NoError(t, f.service.Delete(ctx, f.groupID, meeting.ID, f.members[0]))
		assert.Contains(t, f.groups.detached, meeting.ID)

		_, err := f.service.Get(ctx, f.groupID, meeting.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("non-creator cannot delete", func(t *testing.T) {
		meeting := f.createMeeting(t)
		err := f.service.Delete(ctx, f.groupID, meeting.ID, f.members[1])
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})
}

func TestCloseExpired(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	past := f.createMeeting(t)
	f.repo.meetings[past.ID].Date = "2020-01-01"

	future := f.createMeeting(t)
	f.repo.meetings[future.ID].Date = "2999-01-01"

	done := f.createMeeting(t)
	f.repo.meetings[done.ID].Date = "2020-01-01"
	f.repo.meetings[done.ID].Status = StatusConfirmed

	closed, err := f.service.CloseExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)

	assert.Equal(t, StatusRejected, f.repo.meetings[past.ID].Status)
	assert.Equal(t, StatusPending, f.repo.meetings[future.ID].Status)
	assert.Equal(t, StatusConfirmed, f.repo.meetings[done.ID].Status)
}

func TestExportWorkbook(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	f.createMeeting(t)

	t.Run("non-member cannot export", func(t *testing.T) {
		_, err := f.service.ExportWorkbook(ctx, f.groupID, primitive.NewObjectID())
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("member gets one row per meeting", func(t *testing.T) {
		workbook, err := f.service.ExportWorkbook(ctx, f.groupID, f.members[0])
		require.NoError(t, err)

		sheet := workbook.GetSheetName(0)
		rows, err := workbook.GetRows(sheet)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Date", rows[0][0])
		assert.Equal(t, "2026-09-10", rows[1][0])
	})
}

func TestGetScopedToGroup(t *testing.T) {
	f := newFixture(t, 3)
	meeting := f.createMeeting(t)

	_, err := f.service.Get(context.Background(), primitive.NewObjectID(), meeting.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.False(t, errors.Is(err, mongo.ErrNoDocuments))
}
