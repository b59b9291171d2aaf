package auth

import (
	"hobby-lobby/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
}

func NewAuthApi(controller *AuthController) api.Route {
	return &AuthApi{controller: controller}
}

// Setup registers the public auth endpoints. No auth middleware here:
// registration, verification and login happen before a session exists.
func (h *AuthApi) Setup(app *fiber.App) {
	group := app.Group("/api/v1/auth")

	group.Post("/register", h.controller.Register)
	group.Get("/verify/:token", h.controller.Verify)
	group.Post("/login", h.controller.Login)
}
