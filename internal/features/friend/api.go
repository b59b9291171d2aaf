package friend

import (
	"hobby-lobby/internal/common/api"
	"hobby-lobby/internal/config"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FriendApi struct {
	controller *FriendController
	config     *config.Config
}

func NewFriendApi(controller *FriendController, config *config.Config) api.Route {
	return &FriendApi{
		controller: controller,
		config:     config,
	}
}

func (h *FriendApi) Setup(app *fiber.App) {
	group := app.Group("/api/v1/friends", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/request", h.controller.SendRequest)
	group.Get("/requests", h.controller.IncomingRequests)
	group.Get("/status/:otherId", h.controller.RelationStatus)
	group.Put("/respond/:requestId", h.controller.Respond)
}
