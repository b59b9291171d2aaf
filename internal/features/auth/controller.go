package auth

import (
	"fmt"

	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/config"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Service AuthService
	Config  *config.Config
}

func NewAuthController(service AuthService, cfg *config.Config) *AuthController {
	return &AuthController{Service: service, Config: cfg}
}

// Register godoc
func (c *AuthController) Register(ctx *fiber.Ctx) error {
	var input RegisterInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	usr, err := c.Service.Register(ctx.UserContext(), input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful. Check your email to verify your account.",
		"userId":  usr.ID,
	})
}

// Verify godoc
func (c *AuthController) Verify(ctx *fiber.Ctx) error {
	if err := c.Service.Verify(ctx.UserContext(), ctx.Params("token")); err != nil {
		return apperr.Respond(ctx, err)
	}

	// Redirect to the frontend login page once the account is confirmed
	return ctx.Redirect(fmt.Sprintf("%s/login?verified=true", c.Config.FrontendURL))
}

// Login godoc
func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var body struct {
		LoginIdentifier string `json:"loginIdentifier"`
		Password        string `json:"password"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	result, err := c.Service.Login(ctx.UserContext(), body.LoginIdentifier, body.Password)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(result)
}
