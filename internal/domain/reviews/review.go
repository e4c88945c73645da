package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"stuverse/internal/domain/market"
	"stuverse/internal/domain/user"
)

var (
	ErrInvalidRating = errors.New("reviews: rating must be between 1 and 5")
	ErrNotFound      = errors.New("reviews: not found")
)

type ReviewID string

// Review is attached to a marketplace listing.
type Review struct {
	ID        ReviewID
	ListingID market.ID
	AuthorID  user.ID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

type Repository interface {
	Save(ctx context.Context, review *Review) error
	// ByListing lists a listing's reviews, newest first.
	ByListing(ctx context.Context, listingID market.ID) ([]*Review, error)
}

type SubmitParams struct {
	ID        ReviewID
	ListingID market.ID
	AuthorID  user.ID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &Review{
		ID:        params.ID,
		ListingID: params.ListingID,
		AuthorID:  params.AuthorID,
		Rating:    params.Rating,
		Comment:   strings.TrimSpace(params.Comment),
		CreatedAt: now.UTC(),
	}, nil
}
