package friend

import (
	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendController struct {
	Service FriendService
}

func NewFriendController(service FriendService) *FriendController {
	return &FriendController{Service: service}
}

func actingID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid user identity")
	}
	return id, nil
}

// SendRequest godoc
func (c *FriendController) SendRequest(ctx *fiber.Ctx) error {
	requesterID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	var body struct {
		RecipientID string `json:"recipientId"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	recipientID, err := primitive.ObjectIDFromHex(body.RecipientID)
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid recipient ID"))
	}

	request, err := c.Service.SendRequest(ctx.UserContext(), requesterID, recipientID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Request sent",
		"request": request,
	})
}

// IncomingRequests godoc
func (c *FriendController) IncomingRequests(ctx *fiber.Ctx) error {
	userID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	requests, err := c.Service.IncomingRequests(ctx.UserContext(), userID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(requests)
}

// RelationStatus godoc
func (c *FriendController) RelationStatus(ctx *fiber.Ctx) error {
	myID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	otherID, err := primitive.ObjectIDFromHex(ctx.Params("otherId"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user ID"))
	}

	status, err := c.Service.RelationStatus(ctx.UserContext(), myID, otherID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"status": status})
}

// Respond godoc
func (c *FriendController) Respond(ctx *fiber.Ctx) error {
	actorID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	requestID, err := primitive.ObjectIDFromHex(ctx.Params("requestId"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request ID"))
	}

	var body struct {
		Action string `json:"action"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	switch body.Action {
	case "accept", "reject":
	default:
		return apperr.Respond(ctx, apperr.Validation("action must be accept or reject"))
	}

	if err := c.Service.Respond(ctx.UserContext(), actorID, requestID, body.Action == "accept"); err != nil {
		return apperr.Respond(ctx, err)
	}

	if body.Action == "accept" {
		return ctx.JSON(fiber.Map{"message": "Friendship accepted"})
	}
	return ctx.JSON(fiber.Map{"message": "Request rejected"})
}
