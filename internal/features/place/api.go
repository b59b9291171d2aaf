package place

import (
	"hobby-lobby/internal/common/api"
	"hobby-lobby/internal/config"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PlaceApi struct {
	controller *PlaceController
	config     *config.Config
}

func NewPlaceApi(controller *PlaceController, config *config.Config) api.Route {
	return &PlaceApi{
		controller: controller,
		config:     config,
	}
}

func (h *PlaceApi) Setup(app *fiber.App) {
	places := app.Group("/api/v1/places", middleware.AuthMiddleware(h.config.SkipAuth))

	places.Post("/", h.controller.Create)
	places.Get("/", h.controller.List)
	places.Get("/:id", h.controller.Get)

	places.Post("/:id/reviews", h.controller.AddReview)
	places.Delete("/:id/reviews", h.controller.RemoveReview)
}
