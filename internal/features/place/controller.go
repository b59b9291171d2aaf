package place

import (
	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlaceController struct {
	Service PlaceService
}

func NewPlaceController(service PlaceService) *PlaceController {
	return &PlaceController{Service: service}
}

// Create godoc
func (c *PlaceController) Create(ctx *fiber.Ctx) error {
	var input CreatePlaceInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	place, err := c.Service.Create(ctx.UserContext(), input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	ctx.Location("/api/v1/places/" + place.ID.Hex())
	return ctx.Status(fiber.StatusCreated).JSON(NewPlaceResponse(place))
}

// List godoc
func (c *PlaceController) List(ctx *fiber.Ctx) error {
	filter := ListPlacesFilter{
		Activity: ctx.Query("activity"),
		Tag:      ctx.Query("tag"),
	}

	places, err := c.Service.List(ctx.UserContext(), filter)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	responses := make([]PlaceResponse, 0, len(places))
	for i := range places {
		responses = append(responses, NewPlaceResponse(&places[i]))
	}
	return ctx.JSON(responses)
}

// Get godoc
func (c *PlaceController) Get(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid place ID"))
	}

	place, err := c.Service.Get(ctx.UserContext(), id)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(NewPlaceResponse(place))
}

// AddReview godoc
func (c *PlaceController) AddReview(ctx *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user identity"))
	}

	placeID, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid place ID"))
	}

	var input ReviewInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid request body"))
	}

	place, err := c.Service.AddReview(ctx.UserContext(), placeID, userID, input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(NewPlaceResponse(place))
}

// RemoveReview godoc
func (c *PlaceController) RemoveReview(ctx *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(middleware.ActingUserID(ctx))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid user identity"))
	}

	placeID, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, apperr.Validation("Invalid place ID"))
	}

	if err := c.Service.RemoveReview(ctx.UserContext(), placeID, userID); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"message": "Review deleted successfully"})
}
