package user

import (
	"hobby-lobby/internal/common/api"
	"hobby-lobby/internal/config"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) api.Route {
	return &UserApi{
		controller: controller,
		config:     config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	group := app.Group("/api/v1/users", middleware.AuthMiddleware(h.config.SkipAuth))

	// search must register before /:id so the router does not shadow it
	group.Get("/search/handle", h.controller.SearchByHandle)

	group.Get("/:id", h.controller.GetProfile)
	group.Patch("/:id", h.controller.UpdateProfile)
	group.Delete("/:id", h.controller.DeleteAccount)

	group.Put("/:id/saved/groups/:groupId", h.controller.SaveGroup)
	group.Delete("/:id/saved/groups/:groupId", h.controller.UnsaveGroup)

	group.Get("/:id/friends", h.controller.ListFriends)
	group.Delete("/:id/friends/:friendId", h.controller.RemoveFriend)
}
