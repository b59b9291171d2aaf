package chat

import (
	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatController struct {
	Service ChatService
}

func NewChatController(service ChatService) *ChatController {
	return &ChatController{Service: service}
}

func actingID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid user identity")
	}
	return id, nil
}

// List godoc
func (c *ChatController) List(ctx *fiber.Ctx) error {
	userID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	chats, err := c.Service.ListChats(ctx.UserContext(), userID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(chats)
}

// OpenPrivate godoc
func (c *ChatController) OpenPrivate(ctx *fiber.Ctx) error {
	userID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	otherID, err := primitive.ObjectIDFromHex(ctx.Params("userId"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user ID"))
	}

	chat, err := c.Service.OpenPrivateChat(ctx.UserContext(), userID, otherID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(chat)
}

// Messages godoc
func (c *ChatController) Messages(ctx *fiber.Ctx) error {
	userID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	chatID, err := primitive.ObjectIDFromHex(ctx.Params("chatId"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid chat ID"))
	}

	messages, err := c.Service.ListMessages(ctx.UserContext(), chatID, userID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(messages)
}

// PostMessage godoc
func (c *ChatController) PostMessage(ctx *fiber.Ctx) error {
	userID, err := actingID(ctx)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	chatID, err := primitive.ObjectIDFromHex(ctx.Params("chatId"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid chat ID"))
	}

	var input PostMessageInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	message, err := c.Service.PostMessage(ctx.UserContext(), chatID, userID, input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(message)
}
