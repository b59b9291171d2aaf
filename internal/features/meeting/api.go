package meeting

import (
	"hobby-lobby/internal/common/api"
	"hobby-lobby/internal/config"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type MeetingApi struct {
	controller *MeetingController
	config     *config.Config
}

func NewMeetingApi(controller *MeetingController, config *config.Config) api.Route {
	return &MeetingApi{
		controller: controller,
		config:     config,
	}
}

func (h *MeetingApi) Setup(app *fiber.App) {
	meetings := app.Group("/api/v1/groups/:groupId/meetings", middleware.AuthMiddleware(h.config.SkipAuth))

	meetings.Get("/", h.controller.List)
	meetings.Post("/", h.controller.Create)

	// export must register before /:meetingId so the router does not shadow it
	meetings.Get("/export", h.controller.Export)

	meetings.Get("/:meetingId", h.controller.Get)
	meetings.Patch("/:meetingId", h.controller.Update)
	meetings.Delete("/:meetingId", h.controller.Delete)

	meetings.Post("/:meetingId/vote", h.controller.CastVote)
}
