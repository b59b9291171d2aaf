package user

import (
	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{Service: service}
}

func actingID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid user identity")
	}
	return id, nil
}

// GetProfile godoc
func (c *UserController) GetProfile(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user ID"))
	}

	usr, err := c.Service.GetProfile(ctx.UserContext(), id)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(usr)
}

// UpdateProfile godoc
func (c *UserController) UpdateProfile(ctx *fiber.Ctx) error {
	actorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user ID"))
	}

	var patch ProfilePatch
	if err := ctx.BodyParser(&patch); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	usr, err := c.Service.UpdateProfile(ctx.UserContext(), actorID, id, patch)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(usr)
}

// SearchByHandle godoc
func (c *UserController) SearchByHandle(ctx *fiber.Ctx) error {
	summary, err := c.Service.SearchByHandle(ctx.UserContext(), ctx.Query("query"))
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(summary)
}

// SaveGroup godoc
func (c *UserController) SaveGroup(ctx *fiber.Ctx) error {
	actorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	groupID, err := primitive.ObjectIDFromHex(ctx.Params("groupId"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid group ID"))
	}

	if err := c.Service.SaveGroup(ctx.UserContext(), actorID, groupID); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"message": "Group saved"})
}

// UnsaveGroup godoc
func (c *UserController) UnsaveGroup(ctx *fiber.Ctx) error {
	actorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	groupID, err := primitive.ObjectIDFromHex(ctx.Params("groupId"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid group ID"))
	}

	if err := c.Service.UnsaveGroup(ctx.UserContext(), actorID, groupID); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

// ListFriends godoc
func (c *UserController) ListFriends(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user ID"))
	}

	friends, err := c.Service.ListFriends(ctx.UserContext(), id)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(friends)
}

// RemoveFriend godoc
func (c *UserController) RemoveFriend(ctx *fiber.Ctx) error {
	actorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	friendID, err := primitive.ObjectIDFromHex(ctx.Params("friendId"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid friend ID"))
	}

	if err := c.Service.RemoveFriend(ctx.UserContext(), actorID, friendID); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"message": "Friendship removed successfully"})
}

// DeleteAccount godoc
func (c *UserController) DeleteAccount(ctx *fiber.Ctx) error {
	actorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user ID"))
	}

	if err := c.Service.DeleteAccount(ctx.UserContext(), actorID, id); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"message": "Account deleted permanently"})
}
