package group

import (
	"context"
	"fmt"

	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ChatManager keeps the group's chat in step with its membership.
// Implemented by the chat feature; wired up via an adapter in main.
type ChatManager interface {
	CreateGroupChat(ctx context.Context, groupID primitive.ObjectID, name string, participants []primitive.ObjectID) error
	DeleteGroupChat(ctx context.Context, groupID primitive.ObjectID) error
	AddParticipant(ctx context.Context, groupID, userID primitive.ObjectID) error
	RemoveParticipant(ctx context.Context, groupID, userID primitive.ObjectID) error
}

// MeetingManager cascades group deletion into the group's meetings.
// Implemented by the meeting feature; wired up via an adapter in main.
type MeetingManager interface {
	DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) error
}

type CreateGroupInput struct {
	GroupName   string   `json:"groupName"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Frequency   string   `json:"frequency"`
	Tags        []string `json:"tags"`
}

// GroupPatch carries the editable group fields. Nil means "leave unchanged".
type GroupPatch struct {
	GroupName    *string  `json:"groupName"`
	Description  *string  `json:"description"`
	Duration     *string  `json:"duration"`
	Frequency    *string  `json:"frequency"`
	IsRecruiting *bool    `json:"isRecruiting"`
	Tags         []string `json:"tags"`
}

type GroupService interface {
	CreateGroup(ctx context.Context, creatorID primitive.ObjectID, input CreateGroupInput) (*Group, error)
	GetAllGroups(ctx context.Context) ([]Group, error)
	GetGroupByID(ctx context.Context, id primitive.ObjectID) (*Group, error)
	UpdateGroup(ctx context.Context, actorID, id primitive.ObjectID, patch GroupPatch) (*Group, error)
	DeleteGroup(ctx context.Context, actorID, id primitive.ObjectID) error
	Join(ctx context.Context, groupID, userID primitive.ObjectID) (*Group, error)
	Leave(ctx context.Context, groupID, userID primitive.ObjectID) error
}

type GroupServiceImpl struct {
	repo       GroupRepository
	chats      ChatManager
	meetings   MeetingManager
	dispatcher notification.Dispatcher
	logger     *zap.Logger
}

func NewGroupService(repo GroupRepository, chats ChatManager, meetings MeetingManager, dispatcher notification.Dispatcher, logger *zap.Logger) GroupService {
	return &GroupServiceImpl{
		repo:       repo,
		chats:      chats,
		meetings:   meetings,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *GroupServiceImpl) CreateGroup(ctx context.Context, creatorID primitive.ObjectID, input CreateGroupInput) (*Group, error) {
	if input.GroupName == "" {
		return nil, apperr.Validation("groupName is required")
	}
	if len(input.Tags) == 0 {
		return nil, apperr.Validation("at least one tag is required")
	}
	if input.Duration == "" || input.Frequency == "" {
		return nil, apperr.Validation("duration and frequency are required")
	}

	group := Group{
		GroupName:    input.GroupName,
		Description:  input.Description,
		Duration:     input.Duration,
		Frequency:    input.Frequency,
		IsRecruiting: true,
		Tags:         input.Tags,
		CreatedBy:    creatorID,
		Members:      []primitive.ObjectID{creatorID},
	}

	if err := s.repo.Create(ctx, &group); err != nil {
		return nil, err
	}

	// Every group gets a chat; losing it is recoverable, so the group
	// creation does not roll back on chat failure.
	if err := s.chats.CreateGroupChat(ctx, group.ID, group.GroupName, group.Members); err != nil {
		s.logger.Error("group chat creation failed",
			zap.String("groupId", group.ID.Hex()),
			zap.Error(err))
	}

	return &group, nil
}

func (s *GroupServiceImpl) GetAllGroups(ctx context.Context) ([]Group, error) {
	return s.repo.FindAll(ctx)
}

func (s *GroupServiceImpl) GetGroupByID(ctx context.Context, id primitive.ObjectID) (*Group, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("Group not found")
	}
	return group, err
}

func (s *GroupServiceImpl) UpdateGroup(ctx context.Context, actorID, id primitive.ObjectID, patch GroupPatch) (*Group, error) {
	existing, err := s.GetGroupByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.CreatedBy != actorID {
		return nil, apperr.Forbidden("Only the creator can modify this group")
	}

	fields := bson.M{}
	if patch.GroupName != nil {
		if *patch.GroupName == "" {
			return nil, apperr.Validation("groupName cannot be empty")
		}
		fields["group_name"] = *patch.GroupName
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Duration != nil {
		fields["duration"] = *patch.Duration
	}
	if patch.Frequency != nil {
		fields["frequency"] = *patch.Frequency
	}
	if patch.IsRecruiting != nil {
		fields["is_recruiting"] = *patch.IsRecruiting
	}
	if patch.Tags != nil {
		if len(patch.Tags) == 0 {
			return nil, apperr.Validation("tags cannot be empty")
		}
		fields["tags"] = patch.Tags
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	return s.GetGroupByID(ctx, id)
}

func (s *GroupServiceImpl) DeleteGroup(ctx context.Context, actorID, id primitive.ObjectID) error {
	existing, err := s.GetGroupByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.CreatedBy != actorID {
		return apperr.Forbidden("Only the creator can delete this group")
	}

	// Cascade: meetings first, then the chat, then the group document.
	if err := s.meetings.DeleteByGroup(ctx, id); err != nil {
		return err
	}
	if err := s.chats.DeleteGroupChat(ctx, id); err != nil {
		s.logger.Error("group chat cleanup failed",
			zap.String("groupId", id.Hex()),
			zap.Error(err))
	}

	return s.repo.Delete(ctx, id)
}

func (s *GroupServiceImpl) Join(ctx context.Context, groupID, userID primitive.ObjectID) (*Group, error) {
	existing, err := s.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if existing.HasMember(userID) {
		return nil, apperr.Conflict(apperr.CodeDuplicate, "Already a member of this group")
	}
	if !existing.IsRecruiting {
		return nil, apperr.Forbidden("Group is not recruiting")
	}

	if err := s.repo.AddMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if err := s.chats.AddParticipant(ctx, groupID, userID); err != nil {
		s.logger.Error("group chat membership sync failed",
			zap.String("groupId", groupID.Hex()),
			zap.Error(err))
	}

	s.dispatcher.Dispatch(
		[]primitive.ObjectID{existing.CreatedBy},
		notification.NotificationTypeJoin,
		"New member",
		fmt.Sprintf("Someone joined %s", existing.GroupName),
		&groupID,
	)

	return s.GetGroupByID(ctx, groupID)
}

func (s *GroupServiceImpl) Leave(ctx context.Context, groupID, userID primitive.ObjectID) error {
	existing, err := s.GetGroupByID(ctx, groupID)
	if err != nil {
		return err
	}

	if !existing.HasMember(userID) {
		return apperr.Validation("Not a member of this group")
	}
	// Members must stay non-empty with the creator among them.
	if existing.CreatedBy == userID {
		return apperr.Conflict("", "The creator cannot leave the group; delete it instead")
	}

	if err := s.repo.RemoveMember(ctx, groupID, userID); err != nil {
		return err
	}
	if err := s.chats.RemoveParticipant(ctx, groupID, userID); err != nil {
		s.logger.Error("group chat membership sync failed",
			zap.String("groupId", groupID.Hex()),
			zap.Error(err))
	}

	return nil
}
