package group

import (
	"hobby-lobby/internal/common/api"
	"hobby-lobby/internal/config"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type GroupApi struct {
	controller *GroupController
	config     *config.Config
}

func NewGroupApi(controller *GroupController, config *config.Config) api.Route {
	return &GroupApi{
		controller: controller,
		config:     config,
	}
}

func (h *GroupApi) Setup(app *fiber.App) {
	groups := app.Group("/api/v1/groups", middleware.AuthMiddleware(h.config.SkipAuth))

	groups.Post("/", h.controller.CreateGroup)
	groups.Get("/", h.controller.GetAllGroups)
	groups.Get("/:id", h.controller.GetGroup)
	groups.Patch("/:id", h.controller.UpdateGroup)
	groups.Delete("/:id", h.controller.DeleteGroup)

	// Membership
	groups.Post("/:id/members", h.controller.Join)
	groups.Delete("/:id/members", h.controller.Leave)
}
