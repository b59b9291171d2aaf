package group

import (
	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GroupController struct {
	Service GroupService
}

func NewGroupController(service GroupService) *GroupController {
	return &GroupController{Service: service}
}

func actingID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid user identity")
	}
	return id, nil
}

func groupParam(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid group ID")
	}
	return id, nil
}

// CreateGroup godoc
func (c *GroupController) CreateGroup(ctx *fiber.Ctx) error {
	creatorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	var input CreateGroupInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	group, err := c.Service.CreateGroup(ctx.UserContext(), creatorID, input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	ctx.Location("/api/v1/groups/" + group.ID.Hex())
	return ctx.Status(fiber.StatusCreated).JSON(group)
}

// GetAllGroups godoc
func (c *GroupController) GetAllGroups(ctx *fiber.Ctx) error {
	groups, err := c.Service.GetAllGroups(ctx.UserContext())
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(groups)
}

// GetGroup godoc
func (c *GroupController) GetGroup(ctx *fiber.Ctx) error {
	id, err := groupParam(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	group, err := c.Service.GetGroupByID(ctx.UserContext(), id)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(group)
}

// UpdateGroup godoc
func (c *GroupController) UpdateGroup(ctx *fiber.Ctx) error {
	actorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	id, err := groupParam(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	var patch GroupPatch
	if err := ctx.BodyParser(&patch); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	group, err := c.Service.UpdateGroup(ctx.UserContext(), actorID, id, patch)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(group)
}

// DeleteGroup godoc
func (c *GroupController) DeleteGroup(ctx *fiber.Ctx) error {
	actorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	id, err := groupParam(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	if err := c.Service.DeleteGroup(ctx.UserContext(), actorID, id); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"message": "Group deleted successfully"})
}

// Join godoc
func (c *GroupController) Join(ctx *fiber.Ctx) error {
	userID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	id, err := groupParam(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	group, err := c.Service.Join(ctx.UserContext(), id, userID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(group)
}

// Leave godoc
func (c *GroupController) Leave(ctx *fiber.Ctx) error {
	userID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	id, err := groupParam(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	if err := c.Service.Leave(ctx.UserContext(), id, userID); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
