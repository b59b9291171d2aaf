package meeting

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the meeting lifecycle state. Pending meetings accept votes and
// edits; confirmed and rejected are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// VoteResponse is a member's answer to a meeting proposal.
type VoteResponse string

const (
	ResponseConfirmed      VoteResponse = "confirmed"
	ResponseRejected       VoteResponse = "rejected"
	ResponseProposedChange VoteResponse = "proposedChange"
)

func (r VoteResponse) Valid() bool {
	switch r {
	case ResponseConfirmed, ResponseRejected, ResponseProposedChange:
		return true
	}
	return false
}

// ChangeProposal carries the alternative a member suggests instead of a plain
// rejection. Unset fields stay null in the stored document and the response.
type ChangeProposal struct {
	Date    *string             `bson:"date" json:"date"`
	Time    *string             `bson:"time" json:"time"`
	PlaceID *primitive.ObjectID `bson:"place_id" json:"placeId"`
}

func (p *ChangeProposal) Empty() bool {
	return p == nil || (p.Date == nil && p.Time == nil && p.PlaceID == nil)
}

// Vote is one member's entry in the meeting's vote ledger. Votes are
// append-only: never mutated, never deleted.
type Vote struct {
	UserID         primitive.ObjectID `bson:"user_id" json:"userId"`
	Response       VoteResponse       `bson:"response" json:"response"`
	ChangeProposal *ChangeProposal    `bson:"change_proposal" json:"changeProposal"`
	RespondedAt    string             `bson:"responded_at" json:"respondedAt"`
}

// Tally mirrors the vote ledger partitioned by response. Its sum always
// equals the ledger length.
type Tally struct {
	Confirmed      int `bson:"confirmed" json:"confirmed"`
	Rejected       int `bson:"rejected" json:"rejected"`
	ProposedChange int `bson:"proposedChange" json:"proposedChange"`
}

func (t Tally) Sum() int {
	return t.Confirmed + t.Rejected + t.ProposedChange
}

type Meeting struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"meetingId"`
	GroupID         primitive.ObjectID `bson:"group" json:"groupId"`
	CreatedBy       primitive.ObjectID `bson:"created_by" json:"createdBy"`
	Date            string             `bson:"date" json:"date"`
	Time            string             `bson:"time" json:"time"`
	PlaceID         primitive.ObjectID `bson:"place_id" json:"placeId"`
	Description     *string            `bson:"description" json:"description"`
	MinParticipants *int               `bson:"min_participants,omitempty" json:"minParticipants,omitempty"`
	Status          Status             `bson:"status" json:"status"`
	TotalMembers    int                `bson:"total_members" json:"totalMembers"`
	CurrentVotes    Tally              `bson:"current_votes" json:"currentVotes"`
	MemberVotes     []Vote             `bson:"member_votes" json:"memberVotes"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

func (m *Meeting) IsTerminal() bool {
	return m.Status == StatusConfirmed || m.Status == StatusRejected
}

func (m *Meeting) HasVoted(userID primitive.ObjectID) bool {
	for _, vote := range m.MemberVotes {
		if vote.UserID == userID {
			return true
		}
	}
	return false
}

// Self returns the stable resource locator for this meeting.
func (m *Meeting) Self() string {
	return fmt.Sprintf("/api/v1/groups/%s/meetings/%s", m.GroupID.Hex(), m.ID.Hex())
}

// MeetingResponse is the wire shape for a meeting resource.
type MeetingResponse struct {
	MeetingID       primitive.ObjectID `json:"meetingId"`
	GroupID         primitive.ObjectID `json:"groupId"`
	Self            string             `json:"self"`
	Date            string             `json:"date"`
	Time            string             `json:"time"`
	PlaceID         primitive.ObjectID `json:"placeId"`
	Description     *string            `json:"description"`
	MinParticipants *int               `json:"minParticipants,omitempty"`
	Status          Status             `json:"status"`
	TotalMembers    int                `json:"totalMembers"`
	CreatedBy       primitive.ObjectID `json:"createdBy"`
	CurrentVotes    Tally              `json:"currentVotes"`
	MemberVotes     []Vote             `json:"memberVotes"`
}

func NewMeetingResponse(m *Meeting) MeetingResponse {
	votes := m.MemberVotes
	if votes == nil {
		votes = []Vote{}
	}
	return MeetingResponse{
		MeetingID:       m.ID,
		GroupID:         m.GroupID,
		Self:            m.Self(),
		Date:            m.Date,
		Time:            m.Time,
		PlaceID:         m.PlaceID,
		Description:     m.Description,
		MinParticipants: m.MinParticipants,
		Status:          m.Status,
		TotalMembers:    m.TotalMembers,
		CreatedBy:       m.CreatedBy,
		CurrentVotes:    m.CurrentVotes,
		MemberVotes:     votes,
	}
}
