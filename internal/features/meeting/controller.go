package meeting

import (
	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MeetingController struct {
	Service MeetingService
}

func NewMeetingController(service MeetingService) *MeetingController {
	return &MeetingController{Service: service}
}

func actingID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid user identity")
	}
	return id, nil
}

func pathIDs(ctx *fiber.Ctx) (groupID, meetingID primitive.ObjectID, err error) {
	groupID, err = primitive.ObjectIDFromHex(ctx.Params("groupId"))
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, apperr.Validation("Invalid group ID")
	}
	meetingID, err = primitive.ObjectIDFromHex(ctx.Params("meetingId"))
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, apperr.Validation("Invalid meeting ID")
	}
	return groupID, meetingID, nil
}

// List godoc
func (c *MeetingController) List(ctx *fiber.Ctx) error {
	groupID, err := primitive.ObjectIDFromHex(ctx.Params("groupId"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid group ID"))
	}

	meetings, err := c.Service.List(ctx.UserContext(), groupID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	responses := make([]MeetingResponse, 0, len(meetings))
	for i := range meetings {
		responses = append(responses, NewMeetingResponse(&meetings[i]))
	}
	return ctx.JSON(responses)
}

// Create godoc
func (c *MeetingController) Create(ctx *fiber.Ctx) error {
	creatorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	groupID, err := primitive.ObjectIDFromHex(ctx.Params("groupId"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid group ID"))
	}

	var input CreateMeetingInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	meeting, err := c.Service.Create(ctx.UserContext(), groupID, creatorID, input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	ctx.Location(meeting.Self())
	return ctx.Status(fiber.StatusCreated).JSON(NewMeetingResponse(meeting))
}

// Get godoc
func (c *MeetingController) Get(ctx *fiber.Ctx) error {
	groupID, meetingID, err := pathIDs(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	meeting, err := c.Service.Get(ctx.UserContext(), groupID, meetingID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(NewMeetingResponse(meeting))
}

// Update godoc
func (c *MeetingController) Update(ctx *fiber.Ctx) error {
	actorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	groupID, meetingID, err := pathIDs(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	var patch MeetingPatch
	if err := ctx.BodyParser(&patch); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	meeting, err := c.Service.Update(ctx.UserContext(), groupID, meetingID, actorID, patch)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(NewMeetingResponse(meeting))
}

// Delete godoc
func (c *MeetingController) Delete(ctx *fiber.Ctx) error {
	actorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	groupID, meetingID, err := pathIDs(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	if err := c.Service.Delete(ctx.UserContext(), groupID, meetingID, actorID); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"message": "Meeting deleted successfully"})
}

// CastVote godoc
func (c *MeetingController) CastVote(ctx *fiber.Ctx) error {
	voterID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	groupID, meetingID, err := pathIDs(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	var input CastVoteInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	vote, err := c.Service.CastVote(ctx.UserContext(), groupID, meetingID, voterID, input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(vote)
}

// Export godoc
func (c *MeetingController) Export(ctx *fiber.Ctx) error {
	actorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	groupID, err := primitive.ObjectIDFromHex(ctx.Params("groupId"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid group ID"))
	}

	workbook, err := c.Service.ExportWorkbook(ctx.UserContext(), groupID, actorID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="meetings.xlsx"`)
	return ctx.Send(buf.Bytes())
}
