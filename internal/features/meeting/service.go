package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/features/notification"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// GroupDirectory is the slice of the group feature the meeting lifecycle
// depends on. Implemented by group.GroupRepository; wired via an adapter
// in main.
type GroupDirectory interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	IsMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error)
	MemberIDs(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error)
	AttachMeeting(ctx context.Context, groupID, meetingID primitive.ObjectID) error
	DetachMeeting(ctx context.Context, groupID, meetingID primitive.ObjectID) error
}

type CreateMeetingInput struct {
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	PlaceID         string  `json:"placeId"`
	Description     *string `json:"description"`
	MinParticipants *int    `json:"minParticipants"`
}

// MeetingPatch carries the fields the creator may edit while the meeting is
// pending. Nil means "leave unchanged".
type MeetingPatch struct {
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	PlaceID     *string `json:"placeId"`
	Description *string `json:"description"`
}

type ChangeProposalInput struct {
	Date    *string `json:"date"`
	Time    *string `json:"time"`
	PlaceID *string `json:"placeId"`
}

type CastVoteInput struct {
	Response       VoteResponse         `json:"response"`
	ChangeProposal *ChangeProposalInput `json:"changeProposal"`
}

type MeetingService interface {
	Create(ctx context.Context, groupID, creatorID primitive.ObjectID, input CreateMeetingInput) (*Meeting, error)
	Get(ctx context.Context, groupID, meetingID primitive.ObjectID) (*Meeting, error)
	List(ctx context.Context, groupID primitive.ObjectID) ([]Meeting, error)
	Update(ctx context.Context, groupID, meetingID, actorID primitive.ObjectID, patch MeetingPatch) (*Meeting, error)
	Delete(ctx context.Context, groupID, meetingID, actorID primitive.ObjectID) error
	CastVote(ctx context.Context, groupID, meetingID, voterID primitive.ObjectID, input CastVoteInput) (*Vote, error)
	ExportWorkbook(ctx context.Context, groupID, actorID primitive.ObjectID) (*excelize.File, error)
	CloseExpired(ctx context.Context) (int64, error)
}

type MeetingServiceImpl struct {
	repo       MeetingRepository
	groups     GroupDirectory
	dispatcher notification.Dispatcher
	logger     *zap.Logger
}

func NewMeetingService(repo MeetingRepository, groups GroupDirectory, dispatcher notification.Dispatcher, logger *zap.Logger) MeetingService {
	return &MeetingServiceImpl{
		repo:       repo,
		groups:     groups,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func validTime(clock string) bool {
	_, err := time.Parse("15:04", clock)
	return err == nil
}

func (s *MeetingServiceImpl) requireGroup(ctx context.Context, groupID primitive.ObjectID) error {
	exists, err := s.groups.Exists(ctx, groupID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Group not found")
	}
	return nil
}

func (s *MeetingServiceImpl) requireMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	if err := s.requireGroup(ctx, groupID); err != nil {
		return err
	}

	isMember, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperr.Forbidden("Not a member of this group")
	}
	return nil
}

func (s *MeetingServiceImpl) Create(ctx context.Context, groupID, creatorID primitive.ObjectID, input CreateMeetingInput) (*Meeting, error) {
	if err := s.requireMember(ctx, groupID, creatorID); err != nil {
		return nil, err
	}

	if !validDate(input.Date) {
		return nil, apperr.Validation("date must be YYYY-MM-DD")
	}
	if !validTime(input.Time) {
		return nil, apperr.Validation("time must be HH:MM")
	}
	placeID, err := primitive.ObjectIDFromHex(input.PlaceID)
	if err != nil {
		return nil, apperr.Validation("placeId is required")
	}
	if input.MinParticipants != nil && *input.MinParticipants < 1 {
		return nil, apperr.Validation("minParticipants must be at least 1")
	}

	members, err := s.groups.MemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}

	meeting := Meeting{
		GroupID:         groupID,
		CreatedBy:       creatorID,
		Date:            input.Date,
		Time:            input.Time,
		PlaceID:         placeID,
		Description:     input.Description,
		MinParticipants: input.MinParticipants,
		Status:          StatusPending,
		TotalMembers:    len(members),
		CurrentVotes:    Tally{},
		MemberVotes:     []Vote{},
	}

	if err := s.repo.Create(ctx, &meeting); err != nil {
		return nil, err
	}
	if err := s.groups.AttachMeeting(ctx, groupID, meeting.ID); err != nil {
		return nil, err
	}

	return &meeting, nil
}

func (s *MeetingServiceImpl) Get(ctx context.Context, groupID, meetingID primitive.ObjectID) (*Meeting, error) {
	meeting, err := s.repo.FindByID(ctx, groupID, meetingID)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("Meeting not found in this group")
	}
	return meeting, err
}

func (s *MeetingServiceImpl) List(ctx context.Context, groupID primitive.ObjectID) ([]Meeting, error) {
	if err := s.requireGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.FindByGroup(ctx, groupID)
}

func (s *MeetingServiceImpl) Update(ctx context.Context, groupID, meetingID, actorID primitive.ObjectID, patch MeetingPatch) (*Meeting, error) {
	existing, err := s.Get(ctx, groupID, meetingID)
	if err != nil {
		return nil, err
	}

	if existing.IsTerminal() {
		return nil, apperr.Conflict(apperr.CodeMeetingLocked, "Meeting cannot be updated (already confirmed/rejected)")
	}
	if existing.CreatedBy != actorID {
		return nil, apperr.Forbidden("Only the creator can modify this meeting")
	}

	fields := bson.M{}
	if patch.Date != nil {
		if !validDate(*patch.Date) {
			return nil, apperr.Validation("date must be YYYY-MM-DD")
		}
		fields["date"] = *patch.Date
	}
	if patch.Time != nil {
		if !validTime(*patch.Time) {
			return nil, apperr.Validation("time must be HH:MM")
		}
		fields["time"] = *patch.Time
	}
	if patch.PlaceID != nil {
		placeID, err := primitive.ObjectIDFromHex(*patch.PlaceID)
		if err != nil {
			return nil, apperr.Validation("Invalid placeId")
		}
		fields["place_id"] = placeID
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}

	if len(fields) == 0 {
		return existing, nil
	}

	matched, err := s.repo.UpdatePendingFields(ctx, groupID, meetingID, fields)
	if err != nil {
		return nil, err
	}
	if !matched {
		// The meeting was deleted or reached a terminal state between the
		// guard read and the conditional write.
		if _, err := s.Get(ctx, groupID, meetingID); err != nil {
			return nil, err
		}
		return nil, apperr.Conflict(apperr.CodeMeetingLocked, "Meeting cannot be updated (already confirmed/rejected)")
	}

	return s.Get(ctx, groupID, meetingID)
}

func (s *MeetingServiceImpl) Delete(ctx context.Context, groupID, meetingID, actorID primitive.ObjectID) error {
	existing, err := s.Get(ctx, groupID, meetingID)
	if err != nil {
		return err
	}

	// Deletion stays open in terminal states; only the creator guard applies.
	if existing.CreatedBy != actorID {
		return apperr.Forbidden("Only the creator can delete this meeting")
	}

	if err := s.repo.Delete(ctx, groupID, meetingID); err != nil {
		return err
	}
	return s.groups.DetachMeeting(ctx, groupID, meetingID)
}

func (s *MeetingServiceImpl) CastVote(ctx context.Context, groupID, meetingID, voterID primitive.ObjectID, input CastVoteInput) (*Vote, error) {
	if err := s.requireMember(ctx, groupID, voterID); err != nil {
		return nil, err
	}

	if !input.Response.Valid() {
		return nil, apperr.Validation("response must be confirmed, rejected or proposedChange")
	}

	var proposal *ChangeProposal
	if input.Response == ResponseProposedChange {
		proposal = &ChangeProposal{}
		if input.ChangeProposal != nil {
			proposal.Date = input.ChangeProposal.Date
			proposal.Time = input.ChangeProposal.Time
			if input.ChangeProposal.PlaceID != nil {
				placeID, err := primitive.ObjectIDFromHex(*input.ChangeProposal.PlaceID)
				if err != nil {
					return nil, apperr.Validation("Invalid changeProposal.placeId")
				}
				proposal.PlaceID = &placeID
			}
		}
		if proposal.Empty() {
			return nil, apperr.Validation("changeProposal must carry at least one of date, time, placeId")
		}
		if proposal.Date != nil && !validDate(*proposal.Date) {
			return nil, apperr.Validation("changeProposal.date must be YYYY-MM-DD")
		}
		if proposal.Time != nil && !validTime(*proposal.Time) {
			return nil, apperr.Validation("changeProposal.time must be HH:MM")
		}
	}

	existing, err := s.Get(ctx, groupID, meetingID)
	if err != nil {
		return nil, err
	}

	vote := Vote{
		UserID:         voterID,
		Response:       input.Response,
		ChangeProposal: proposal,
		RespondedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	// The append is the authoritative check: its filter re-asserts pending
	// status and vote uniqueness, so two concurrent casts cannot both land.
	appended, err := s.repo.AppendVote(ctx, groupID, meetingID, vote)
	if err != nil {
		return nil, err
	}
	if !appended {
		current, err := s.Get(ctx, groupID, meetingID)
		if err != nil {
			return nil, err
		}
		if current.IsTerminal() {
			return nil, apperr.Conflict(apperr.CodeVotingClosed, "Voting is closed")
		}
		if current.HasVoted(voterID) {
			return nil, apperr.Conflict(apperr.CodeAlreadyVoted, "User has already voted")
		}
		return nil, errors.New("vote was not recorded")
	}

	s.maybeTransition(ctx, existing, input.Response)

	return &vote, nil
}

// maybeTransition flips the meeting into a terminal state once the vote that
// just landed gives its response a strict majority. The outcome notification
// is fire-and-forget.
func (s *MeetingServiceImpl) maybeTransition(ctx context.Context, meeting *Meeting, response VoteResponse) {
	if response != ResponseConfirmed && response != ResponseRejected {
		return
	}

	transitioned, err := s.repo.TransitionOnMajority(ctx, meeting.GroupID, meeting.ID, response, meeting.TotalMembers)
	if err != nil {
		s.logger.Error("meeting transition check failed",
			zap.String("meetingId", meeting.ID.Hex()),
			zap.Error(err))
		return
	}
	if !transitioned {
		return
	}

	outcome := "confirmed"
	if response == ResponseRejected {
		outcome = "rejected"
	}

	members, err := s.groups.MemberIDs(ctx, meeting.GroupID)
	if err != nil {
		s.logger.Error("meeting outcome fan-out skipped",
			zap.String("meetingId", meeting.ID.Hex()),
			zap.Error(err))
		return
	}

	meetingID := meeting.ID
	s.dispatcher.Dispatch(
		members,
		notification.NotificationTypeVote,
		fmt.Sprintf("Meeting %s", outcome),
		fmt.Sprintf("The meeting on %s at %s has been %s", meeting.Date, meeting.Time, outcome),
		&meetingID,
	)
}

func (s *MeetingServiceImpl) ExportWorkbook(ctx context.Context, groupID, actorID primitive.ObjectID) (*excelize.File, error) {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	meetings, err := s.repo.FindByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"Date", "Time", "Place ID", "Status", "Total Members", "Confirmed", "Rejected", "Proposed Change", "Votes Cast"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, m := range meetings {
		values := []interface{}{
			m.Date,
			m.Time,
			m.PlaceID.Hex(),
			string(m.Status),
			m.TotalMembers,
			m.CurrentVotes.Confirmed,
			m.CurrentVotes.Rejected,
			m.CurrentVotes.ProposedChange,
			len(m.MemberVotes),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	return f, nil
}

func (s *MeetingServiceImpl) CloseExpired(ctx context.Context) (int64, error) {
	today := time.Now().UTC().Format("2006-01-02")
	return s.repo.RejectExpired(ctx, today)
}
