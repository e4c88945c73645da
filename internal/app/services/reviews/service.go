package reviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainmarket "stuverse/internal/domain/market"
	domainreviews "stuverse/internal/domain/reviews"
	domainuser "stuverse/internal/domain/user"
)

// Service covers listing reviews: submit and list per listing.
type Service struct {
	Reviews  domainreviews.Repository
	Listings domainmarket.Repository
	Users    domainuser.Repository
	Logger   *slog.Logger
}

// View is a review joined with its author summary.
type View struct {
	ID        domainreviews.ReviewID `json:"_id"`
	ListingID domainmarket.ID        `json:"product"`
	Author    domainuser.Summary     `json:"user"`
	Rating    int                    `json:"rating"`
	Comment   string                 `json:"comment,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

func (s *Service) Submit(ctx context.Context, author *domainuser.User, listingID domainmarket.ID, rating int, comment string) (*View, error) {
	if _, err := s.Listings.ByID(ctx, listingID); err != nil {
		return nil, err
	}
	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:        domainreviews.ReviewID(uuid.NewString()),
		ListingID: listingID,
		AuthorID:  author.ID,
		Rating:    rating,
		Comment:   comment,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Reviews.Save(ctx, review); err != nil {
		return nil, fmt.Errorf("reviews: save review: %w", err)
	}
	return &View{
		ID:        review.ID,
		ListingID: review.ListingID,
		Author:    author.Summary(),
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}, nil
}

// ByListing lists a listing's reviews, newest first.
func (s *Service) ByListing(ctx context.Context, listingID domainmarket.ID) ([]View, error) {
	reviews, err := s.Reviews.ByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("reviews: list: %w", err)
	}
	summaries := make(map[domainuser.ID]domainuser.Summary)
	views := make([]View, 0, len(reviews))
	for _, review := range reviews {
		summary, ok := summaries[review.AuthorID]
		if !ok {
			u, err := s.Users.ByID(ctx, review.AuthorID)
			if err != nil {
				if errors.Is(err, domainuser.ErrNotFound) {
					summary = domainuser.Summary{ID: review.AuthorID}
				} else {
					return nil, fmt.Errorf("reviews: resolve author: %w", err)
				}
			} else {
				summary = u.Summary()
			}
			summaries[review.AuthorID] = summary
		}
		views = append(views, View{
			ID:        review.ID,
			ListingID: review.ListingID,
			Author:    summary,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}
	return views, nil
}
