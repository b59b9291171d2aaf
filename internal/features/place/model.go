package place

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is embedded in its place. Reviews are immutable once created;
// a user may leave at most one per place.
type Review struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

type Place struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"placeId"`
	PlaceName   string             `bson:"place_name" json:"placeName"`
	Address     string             `bson:"address" json:"address"`
	OpeningTime string             `bson:"opening_time" json:"openingTime"`
	ClosingTime string             `bson:"closing_time" json:"closingTime"`
	Activity    string             `bson:"activity" json:"activity"`
	Tags        []string           `bson:"tags" json:"tags"`
	Description string             `bson:"description" json:"description"`

	// Rating aggregates are kept with $inc alongside the review push, so
	// the average needs no read-modify-write cycle.
	ReviewCount int      `bson:"review_count" json:"reviewCount"`
	RatingSum   int      `bson:"rating_sum" json:"-"`
	Reviews     []Review `bson:"reviews" json:"reviews"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func (p *Place) RatingAvg() float64 {
	if p.ReviewCount == 0 {
		return 0
	}
	return float64(p.RatingSum) / float64(p.ReviewCount)
}

// PlaceResponse is the wire shape for a place resource.
type PlaceResponse struct {
	PlaceID     primitive.ObjectID `json:"placeId"`
	Self        string             `json:"self"`
	PlaceName   string             `json:"placeName"`
	Address     string             `json:"address"`
	OpeningTime string             `json:"openingTime"`
	ClosingTime string             `json:"closingTime"`
	Activity    string             `json:"activity"`
	Tags        []string           `json:"tags"`
	Description string             `json:"description"`
	RatingAvg   float64            `json:"ratingAvg"`
	ReviewCount int                `json:"reviewCount"`
	Reviews     []Review           `json:"reviews"`
}

func NewPlaceResponse(p *Place) PlaceResponse {
	reviews := p.Reviews
	if reviews == nil {
		reviews = []Review{}
	}
	return PlaceResponse{
		PlaceID:     p.ID,
		Self:        "/api/v1/places/" + p.ID.Hex(),
		PlaceName:   p.PlaceName,
		Address:     p.Address,
		OpeningTime: p.OpeningTime,
		ClosingTime: p.ClosingTime,
		Activity:    p.Activity,
		Tags:        p.Tags,
		Description: p.Description,
		RatingAvg:   p.RatingAvg(),
		ReviewCount: p.ReviewCount,
		Reviews:     reviews,
	}
}
