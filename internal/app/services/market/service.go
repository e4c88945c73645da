package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stuverse/internal/app/outbox"
	domainmarket "stuverse/internal/domain/market"
	"stuverse/internal/domain/shared/geo"
	domainuser "stuverse/internal/domain/user"
)

// Service covers the marketplace: create, browse, fetch and delist listings.
type Service struct {
	Listings domainmarket.Repository
	Users    domainuser.Repository
	Outbox   outbox.Outbox
	Logger   *slog.Logger
}

// ListingView joins the seller summary for rendering.
type ListingView struct {
	Listing *domainmarket.Listing
	Seller  domainuser.Summary
}

type CreateParams struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Condition   domainmarket.Condition
	Type        domainmarket.ListingType
	Images      []string
	Coordinates geo.Coordinates
}

// Create publishes a listing under the seller's university.
func (s *Service) Create(ctx context.Context, seller *domainuser.User, params CreateParams) (*domainmarket.Listing, error) {
	listing, err := domainmarket.New(domainmarket.CreateParams{
		ID:          domainmarket.ID(uuid.NewString()),
		SellerID:    seller.ID,
		Title:       params.Title,
		Description: params.Description,
		Price:       params.Price,
		Category:    params.Category,
		Condition:   params.Condition,
		Type:        params.Type,
		Images:      params.Images,
		University:  seller.University,
		Coordinates: params.Coordinates,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Listings.Save(ctx, listing); err != nil {
		return nil, fmt.Errorf("market: save listing: %w", err)
	}
	s.record(ctx, "listing.created", string(listing.ID), listingEvent{
		ListingID:  string(listing.ID),
		SellerID:   string(listing.SellerID),
		Title:      listing.Title,
		University: listing.University,
		At:         listing.CreatedAt,
	})
	return listing, nil
}

// Browse lists available listings visible to the caller: scoped to their
// university unless they have not declared one, optionally keyword-filtered.
func (s *Service) Browse(ctx context.Context, caller *domainuser.User, keyword string) ([]ListingView, error) {
	filter := domainmarket.Filter{Keyword: keyword}
	if caller.Scoped() {
		filter.University = caller.University
	}
	listings, err := s.Listings.Available(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("market: browse: %w", err)
	}
	return s.joinSellers(ctx, listings)
}

// Get fetches one listing with its seller, regardless of status.
func (s *Service) Get(ctx context.Context, id domainmarket.ID) (*ListingView, error) {
	listing, err := s.Listings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.joinSellers(ctx, []*domainmarket.Listing{listing})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete removes a listing; only the seller may do so.
func (s *Service) Delete(ctx context.Context, caller domainuser.ID, id domainmarket.ID) error {
	listing, err := s.Listings.ByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != caller {
		return domainmarket.ErrNotOwner
	}
	if err := s.Listings.Delete(ctx, id); err != nil {
		return fmt.Errorf("market: delete listing: %w", err)
	}
	return nil
}

func (s *Service) joinSellers(ctx context.Context, listings []*domainmarket.Listing) ([]ListingView, error) {
	summaries := make(map[domainuser.ID]domainuser.Summary)
	views := make([]ListingView, 0, len(listings))
	for _, listing := range listings {
		summary, ok := summaries[listing.SellerID]
		if !ok {
			u, err := s.Users.ByID(ctx, listing.SellerID)
			if err != nil {
				if errors.Is(err, domainuser.ErrNotFound) {
					summary = domainuser.Summary{ID: listing.SellerID}
				} else {
					return nil, fmt.Errorf("market: resolve seller: %w", err)
				}
			} else {
				summary = u.Summary()
			}
			summaries[listing.SellerID] = summary
		}
		views = append(views, ListingView{Listing: listing, Seller: summary})
	}
	return views, nil
}

type listingEvent struct {
	ListingID  string    `json:"listing_id"`
	SellerID   string    `json:"seller_id"`
	Title      string    `json:"title"`
	University string    `json:"university"`
	At         time.Time `json:"at"`
}

func (s *Service) record(ctx context.Context, name, aggregate string, payload any) {
	if err := outbox.Record(ctx, s.Outbox, name, aggregate, payload); err != nil && s.Logger != nil {
		s.Logger.Warn("outbox record failed", "event", name, "error", err)
	}
}
