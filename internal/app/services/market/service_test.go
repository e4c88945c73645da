package market_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketsvc "stuverse/internal/app/services/market"
	domainmarket "stuverse/internal/domain/market"
	domainuser "stuverse/internal/domain/user"
	"stuverse/internal/infra/storage/memory"
)

type fixture struct {
	svc    *marketsvc.Service
	users  *memory.UserRepository
	outbox *memory.Outbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := memory.NewUserRepository()
	box := memory.NewOutbox()
	return &fixture{
		svc: &marketsvc.Service{
			Listings: memory.NewListingRepository(),
			Users:    users,
			Outbox:   box,
		},
		users:  users,
		outbox: box,
	}
}

func (f *fixture) seedUser(t *testing.T, id, university string) *domainuser.User {
	t.Helper()
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Name:         id,
		Email:        id + "@example.edu",
		PasswordHash: "x",
		University:   university,
	})
	require.NoError(t, err)
	require.NoError(t, f.users.Save(context.Background(), u))
	return u
}

func (f *fixture) createListing(t *testing.T, seller *domainuser.User, title string) *domainmarket.Listing {
	t.Helper()
	listing, err := f.svc.Create(context.Background(), seller, marketsvc.CreateParams{
		Title:       title,
		Description: "barely used",
		Price:       25,
		Category:    "Books",
		Condition:   domainmarket.ConditionGood,
		Type:        domainmarket.TypeSale,
	})
	require.NoError(t, err)
	return listing
}

func TestCreateRecordsEventAndDefaults(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "sara", "State U")

	listing := f.createListing(t, seller, "Calculus textbook")
	assert.Equal(t, domainmarket.StatusAvailable, listing.Status)
	assert.Equal(t, "State U", listing.University)

	records := f.outbox.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "listing.created", records[0].Name)
}

func TestBrowseScopesByCallerUniversity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stateSeller := f.seedUser(t, "sara", "State U")
	techSeller := f.seedUser(t, "tom", "Tech U")
	f.createListing(t, stateSeller, "Lamp")
	f.createListing(t, techSeller, "Desk")

	scoped, err := f.svc.Browse(ctx, stateSeller, "")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Lamp", scoped[0].Listing.Title)
	assert.Equal(t, stateSeller.ID, scoped[0].Seller.ID)

	nomad := f.seedUser(t, "nia", "")
	all, err := f.svc.Browse(ctx, nomad, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBrowseKeywordFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.seedUser(t, "sara", "")
	f.createListing(t, seller, "Mountain bike")
	f.createListing(t, seller, "Coffee maker")

	views, err := f.svc.Browse(ctx, seller, "bike")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Mountain bike", views[0].Listing.Title)
}

func TestDeleteRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.seedUser(t, "sara", "")
	intruder := f.seedUser(t, "ivan", "")
	listing := f.createListing(t, seller, "Lamp")

	err := f.svc.Delete(ctx, intruder.ID, listing.ID)
	assert.ErrorIs(t, err, domainmarket.ErrNotOwner)

	require.NoError(t, f.svc.Delete(ctx, seller.ID, listing.ID))
	_, err = f.svc.Get(ctx, listing.ID)
	assert.ErrorIs(t, err, domainmarket.ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.seedUser(t, "sara", "")

	_, err := f.svc.Create(ctx, seller, marketsvc.CreateParams{
		Description: "no title",
		Category:    "Misc",
		Condition:   domainmarket.ConditionGood,
		Type:        domainmarket.TypeSale,
	})
	assert.ErrorIs(t, err, domainmarket.ErrTitleRequired)

	_, err = f.svc.Create(ctx, seller, marketsvc.CreateParams{
		Title:       "Too many pictures",
		Description: "d",
		Category:    "Misc",
		Condition:   domainmarket.ConditionGood,
		Type:        domainmarket.TypeSale,
		Images:      []string{"a", "b", "c", "d"},
	})
	assert.ErrorIs(t, err, domainmarket.ErrTooManyImages)
}
