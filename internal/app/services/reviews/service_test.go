package reviews_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reviewsvc "stuverse/internal/app/services/reviews"
	domainmarket "stuverse/internal/domain/market"
	domainreviews "stuverse/internal/domain/reviews"
	domainuser "stuverse/internal/domain/user"
	"stuverse/internal/infra/storage/memory"
)

type fixture struct {
	svc      *reviewsvc.Service
	users    *memory.UserRepository
	listings *memory.ListingRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := memory.NewUserRepository()
	listings := memory.NewListingRepository()
	return &fixture{
		svc: &reviewsvc.Service{
			Reviews:  memory.NewReviewRepository(),
			Listings: listings,
			Users:    users,
		},
		users:    users,
		listings: listings,
	}
}

func (f *fixture) seedUser(t *testing.T, id string) *domainuser.User {
	t.Helper()
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Name:         id,
		Email:        id + "@example.edu",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	require.NoError(t, f.users.Save(context.Background(), u))
	return u
}

func (f *fixture) seedListing(t *testing.T, seller domainuser.ID) *domainmarket.Listing {
	t.Helper()
	listing, err := domainmarket.New(domainmarket.CreateParams{
		ID:          "listing-1",
		SellerID:    seller,
		Title:       "Desk lamp",
		Description: "works fine",
		Category:    "Furniture",
		Condition:   domainmarket.ConditionGood,
		Type:        domainmarket.TypeSale,
	})
	require.NoError(t, err)
	require.NoError(t, f.listings.Save(context.Background(), listing))
	return listing
}

func TestSubmitAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	listing := f.seedListing(t, seller.ID)

	view, err := f.svc.Submit(ctx, buyer, listing.ID, 4, "quick handoff, item as described")
	require.NoError(t, err)
	assert.Equal(t, 4, view.Rating)
	assert.Equal(t, buyer.ID, view.Author.ID)

	views, err := f.svc.ByListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, view.ID, views[0].ID)
}

func TestSubmitRejectsBadRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	listing := f.seedListing(t, seller.ID)

	_, err := f.svc.Submit(ctx, buyer, listing.ID, 0, "")
	assert.ErrorIs(t, err, domainreviews.ErrInvalidRating)

	_, err = f.svc.Submit(ctx, buyer, listing.ID, 6, "")
	assert.ErrorIs(t, err, domainreviews.ErrInvalidRating)
}

func TestSubmitRequiresExistingListing(t *testing.T) {
	f := newFixture(t)
	buyer := f.seedUser(t, "buyer")

	_, err := f.svc.Submit(context.Background(), buyer, "missing", 5, "great")
	assert.ErrorIs(t, err, domainmarket.ErrNotFound)
}
