package place

import (
	"context"
	"strings"
	"time"

	"hobby-lobby/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type CreatePlaceInput struct {
	PlaceName   string   `json:"placeName"`
	Address     string   `json:"address"`
	OpeningTime string   `json:"openingTime"`
	ClosingTime string   `json:"closingTime"`
	Activity    string   `json:"activity"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

type ListPlacesFilter struct {
	Activity string
	Tag      string
}

type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type PlaceService interface {
	Create(ctx context.Context, input CreatePlaceInput) (*Place, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Place, error)
	List(ctx context.Context, filter ListPlacesFilter) ([]Place, error)
	AddReview(ctx context.Context, placeID, userID primitive.ObjectID, input ReviewInput) (*Place, error)
	RemoveReview(ctx context.Context, placeID, userID primitive.ObjectID) error
}

type PlaceServiceImpl struct {
	repo   PlaceRepository
	logger *zap.Logger
}

func NewPlaceService(repo PlaceRepository, logger *zap.Logger) PlaceService {
	return &PlaceServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *PlaceServiceImpl) Create(ctx context.Context, input CreatePlaceInput) (*Place, error) {
	name := strings.TrimSpace(input.PlaceName)
	address := strings.TrimSpace(input.Address)
	if name == "" {
		return nil, apperr.Validation("Place name is required")
	}
	if address == "" {
		return nil, apperr.Validation("Address is required")
	}
	if strings.TrimSpace(input.Activity) == "" {
		return nil, apperr.Validation("Activity is required")
	}

	existing, err := s.repo.FindByNameAndAddress(ctx, name, address)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict(apperr.CodeDuplicate, "A place with this name and address already exists")
	}

	place := &Place{
		PlaceName:   name,
		Address:     address,
		OpeningTime: input.OpeningTime,
		ClosingTime: input.ClosingTime,
		Activity:    input.Activity,
		Tags:        input.Tags,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, place); err != nil {
		return nil, err
	}

	s.logger.Info("place created",
		zap.String("placeId", place.ID.Hex()),
		zap.String("placeName", place.PlaceName),
	)
	return place, nil
}

func (s *PlaceServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*Place, error) {
	place, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("Place not found")
		}
		return nil, err
	}
	return place, nil
}

func (s *PlaceServiceImpl) List(ctx context.Context, filter ListPlacesFilter) ([]Place, error) {
	query := bson.M{}
	if filter.Activity != "" {
		query["activity"] = filter.Activity
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}
	return s.repo.Find(ctx, query)
}

func (s *PlaceServiceImpl) AddReview(ctx context.Context, placeID, userID primitive.ObjectID, input ReviewInput) (*Place, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperr.Validation("Rating must be between 1 and 5")
	}

	if _, err := s.Get(ctx, placeID); err != nil {
		return nil, err
	}

	review := Review{
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		CreatedAt: time.Now(),
	}

	added, err := s.repo.AddReview(ctx, placeID, review)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, apperr.Conflict(apperr.CodeDuplicate, "You have already reviewed this place")
	}

	return s.Get(ctx, placeID)
}

func (s *PlaceServiceImpl) RemoveReview(ctx context.Context, placeID, userID primitive.ObjectID) error {
	place, err := s.Get(ctx, placeID)
	if err != nil {
		return err
	}

	var own *Review
	for i := range place.Reviews {
		if place.Reviews[i].UserID == userID {
			own = &place.Reviews[i]
			break
		}
	}
	if own == nil {
		return apperr.NotFound("You have not reviewed this place")
	}

	return s.repo.RemoveReview(ctx, placeID, userID, own.Rating)
}
