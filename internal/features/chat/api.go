package chat

import (
	"hobby-lobby/internal/common/api"
	"hobby-lobby/internal/config"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ChatApi struct {
	controller *ChatController
	config     *config.Config
}

func NewChatApi(controller *ChatController, config *config.Config) api.Route {
	return &ChatApi{
		controller: controller,
		config:     config,
	}
}

func (h *ChatApi) Setup(app *fiber.App) {
	chats := app.Group("/api/v1/chats", middleware.AuthMiddleware(h.config.SkipAuth))

	chats.Get("/", h.controller.List)
	chats.Post("/private/:userId", h.controller.OpenPrivate)
	chats.Get("/:chatId/messages", h.controller.Messages)
	chats.Post("/:chatId/messages", h.controller.PostMessage)
}
