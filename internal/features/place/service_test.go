package place

import (
	"context"
	"testing"

	"hobby-lobby/internal/common/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakePlaceRepo struct {
	places map[primitive.ObjectID]*Place
}

func newFakePlaceRepo() *fakePlaceRepo {
	return &fakePlaceRepo{places: map[primitive.ObjectID]*Place{}}
}

func (f *fakePlaceRepo) Create(ctx context.Context, place *Place) error {
	place.ID = primitive.NewObjectID()
	if place.Reviews == nil {
		place.Reviews = []Review{}
	}
	stored := *place
	f.places[place.ID] = &stored
	return nil
}

func (f *fakePlaceRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Place, error) {
	p, ok := f.places[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *p
	copied.Reviews = append([]Review(nil), p.Reviews...)
	return &copied, nil
}

func (f *fakePlaceRepo) FindByNameAndAddress(ctx context.Context, name, address string) (*Place, error) {
	for _, p := range f.places {
		if p.PlaceName == name && p.Address == address {
			copied := *p
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakePlaceRepo) Find(ctx context.Context, filter bson.M) ([]Place, error) {
	result := []Place{}
	for _, p := range f.places {
		if v, ok := filter["activity"]; ok && p.Activity != v.(string) {
			continue
		}
		if v, ok := filter["tags"]; ok {
			found := false
			for _, tag := range p.Tags {
				if tag == v.(string) {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, *p)
	}
	return result, nil
}

func (f *fakePlaceRepo) AddReview(ctx context.Context, placeID primitive.ObjectID, review Review) (bool, error) {
	p, ok := f.places[placeID]
	if !ok {
		return false, nil
	}
	for _, r := range p.Reviews {
		if r.UserID == review.UserID {
			return false, nil
		}
	}
	p.Reviews = append(p.Reviews, review)
	p.ReviewCount++
	p.RatingSum += review.Rating
	return true, nil
}

func (f *fakePlaceRepo) RemoveReview(ctx context.Context, placeID, userID primitive.ObjectID, rating int) error {
	p, ok := f.places[placeID]
	if !ok {
		return nil
	}
	reviews := p.Reviews[:0]
	for _, r := range p.Reviews {
		if r.UserID != userID {
			reviews = append(reviews, r)
		}
	}
	p.Reviews = reviews
	p.ReviewCount--
	p.RatingSum -= rating
	return nil
}

func newPlaceService() (PlaceService, *fakePlaceRepo) {
	repo := newFakePlaceRepo()
	return NewPlaceService(repo, zap.NewNop()), repo
}

func placeInput() CreatePlaceInput {
	return CreatePlaceInput{
		PlaceName: "Boulderwelt East",
		Address:   "Climbing Street 1",
		Activity:  "bouldering",
		Tags:      []string{"indoor"},
	}
}

func TestCreatePlace(t *testing.T) {
	service, _ := newPlaceService()
	ctx := context.Background()

	place, err := service.Create(ctx, placeInput())
	require.NoError(t, err)
	assert.Equal(t, "Boulderwelt East", place.PlaceName)
	assert.Zero(t, place.RatingAvg())

	t.Run("same name and address conflicts", func(t *testing.T) {
		_, err := service.Create(ctx, placeInput())
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.CodeDuplicate, appErr.Code)
	})

	t.Run("same name elsewhere is fine", func(t *testing.T) {
		input := placeInput()
		input.Address = "Other Street 2"
		_, err := service.Create(ctx, input)
		assert.NoError(t, err)
	})
}

func TestListPlacesFiltered(t *testing.T) {
	service, _ := newPlaceService()
	ctx := context.Background()

	_, err := service.Create(ctx, placeInput())
	require.NoError(t, err)
	_, err = service.Create(ctx, CreatePlaceInput{
		PlaceName: "Riverside Chess Pavilion",
		Address:   "Park Lane 5",
		Activity:  "chess",
		Tags:      []string{"outdoor"},
	})
	require.NoError(t, err)

	all, err := service.List(ctx, ListPlacesFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	chess, err := service.List(ctx, ListPlacesFilter{Activity: "chess"})
	require.NoError(t, err)
	require.Len(t, chess, 1)
	assert.Equal(t, "Riverside Chess Pavilion", chess[0].PlaceName)

	indoor, err := service.List(ctx, ListPlacesFilter{Tag: "indoor"})
	require.NoError(t, err)
	assert.Len(t, indoor, 1)
}

func TestReviews(t *testing.T) {
	service, _ := newPlaceService()
	ctx := context.Background()

	place, err := service.Create(ctx, placeInput())
	require.NoError(t, err)

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	t.Run("rating range is enforced", func(t *testing.T) {
		_, err := service.AddReview(ctx, place.ID, alice, ReviewInput{Rating: 0})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		_, err = service.AddReview(ctx, place.ID, alice, ReviewInput{Rating: 6})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("average follows the reviews", func(t *testing.T) {
		updated, err := service.AddReview(ctx, place.ID, alice, ReviewInput{Rating: 5, Comment: "great walls"})
		require.NoError(t, err)
		assert.Equal(t, 5.0, updated.RatingAvg())

		updated, err = service.AddReview(ctx, place.ID, bob, ReviewInput{Rating: 2})
		require.NoError(t, err)
		assert.Equal(t, 3.5, updated.RatingAvg())
		assert.Equal(t, 2, updated.ReviewCount)
	})

	t.Run("one review per user", func(t *testing.T) {
		_, err := service.AddReview(ctx, place.ID, alice, ReviewInput{Rating: 1})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.CodeDuplicate, appErr.Code)
	})

	t.Run("removing a review restores the average", func(t *testing.T) {
		require.NoError(t, service.RemoveReview(ctx, place.ID, bob))

		current, err := service.Get(ctx, place.ID)
		require.NoError(t, err)
		assert.Equal(t, 5.0, current.RatingAvg())
		assert.Equal(t, 1, current.ReviewCount)
	})

	t.Run("removing a missing review is 404", func(t *testing.T) {
		err := service.RemoveReview(ctx, place.ID, primitive.NewObjectID())
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("unknown place is 404", func(t *testing.T) {
		_, err := service.AddReview(ctx, primitive.NewObjectID(), alice, ReviewInput{Rating: 4})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}
