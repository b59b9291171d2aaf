package notification

import (
	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationController struct {
	Service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{Service: service}
}

// List godoc
func (c *NotificationController) List(ctx *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user identity"))
	}

	notifications, err := c.Service.List(ctx.UserContext(), userID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(notifications)
}

// GetUnreadCount godoc
func (c *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user identity"))
	}

	count, err := c.Service.UnreadCount(ctx.UserContext(), userID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"count": count})
}

// MarkAsRead godoc
func (c *NotificationController) MarkAsRead(ctx *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user identity"))
	}

	notificationID, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid notification ID"))
	}

	notification, err := c.Service.MarkRead(ctx.UserContext(), userID, notificationID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(notification)
}

// MarkAllAsRead godoc
func (c *NotificationController) MarkAllAsRead(ctx *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user identity"))
	}

	if err := c.Service.MarkAllRead(ctx.UserContext(), userID); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"message": "All notifications marked as read"})
}

// Delete godoc
func (c *NotificationController) Delete(ctx *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user identity"))
	}

	notificationID, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid notification ID"))
	}

	if err := c.Service.Delete(ctx.UserContext(), userID, notificationID); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
