package lostfound_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lostsvc "stuverse/internal/app/services/lostfound"
	domainlost "stuverse/internal/domain/lostfound"
	"stuverse/internal/domain/shared/geo"
	domainuser "stuverse/internal/domain/user"
	"stuverse/internal/infra/storage/memory"
)

type fixture struct {
	svc    *lostsvc.Service
	users  *memory.UserRepository
	outbox *memory.Outbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := memory.NewUserRepository()
	box := memory.NewOutbox()
	return &fixture{
		svc: &lostsvc.Service{
			Items:  memory.NewLostItemRepository(),
			Users:  users,
			Outbox: box,
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

func (f *fixture) report(t *testing.T, reporter *domainuser.User, title string, coords geo.Coordinates) *domainlost.Item {
	t.Helper()
	item, err := f.svc.Report(context.Background(), reporter, lostsvc.ReportParams{
		Title:       title,
		Description: "last seen near the library",
		Location:    "Main Library",
		Date:        time.Now(),
		Type:        domainlost.TypeLost,
		Coordinates: coords,
	})
	require.NoError(t, err)
	return item
}

func TestReportRecordsEventAndGeometry(t *testing.T) {
	f := newFixture(t)
	reporter := f.seedUser(t, "rita", "State U")

	item := f.report(t, reporter, "Blue backpack", geo.Coordinates{Lat: 40.0, Lng: -79.9})
	assert.Equal(t, domainlost.StatusOpen, item.Status)
	assert.False(t, item.Geometry.Zero())
	assert.Equal(t, "State U", item.University)

	records := f.outbox.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "lostitem.reported", records[0].Name)
}

func TestBrowseNearFiltersByRadius(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "rita", "")

	f.report(t, reporter, "Close by", geo.Coordinates{Lat: 40.0, Lng: -79.9})
	// Roughly 1 degree of latitude away, ~111 km.
	f.report(t, reporter, "Far away", geo.Coordinates{Lat: 41.0, Lng: -79.9})
	f.report(t, reporter, "No location", geo.Coordinates{})

	near := &domainlost.Near{Lat: 40.0, Lng: -79.9} // default 5 km radius
	views, err := f.svc.Browse(ctx, reporter, near)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Close by", views[0].Item.Title)

	wide := &domainlost.Near{Lat: 40.0, Lng: -79.9, RadiusKm: 200}
	views, err = f.svc.Browse(ctx, reporter, wide)
	require.NoError(t, err)
	assert.Len(t, views, 2) // reports without coordinates stay excluded
}

func TestBrowseScopesByUniversity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stateReporter := f.seedUser(t, "rita", "State U")
	techReporter := f.seedUser(t, "theo", "Tech U")
	f.report(t, stateReporter, "State item", geo.Coordinates{})
	f.report(t, techReporter, "Tech item", geo.Coordinates{})

	views, err := f.svc.Browse(ctx, stateReporter, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "State item", views[0].Item.Title)
}

func TestResolveRequiresOwnershipAndHidesItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reporter := f.seedUser(t, "rita", "")
	intruder := f.seedUser(t, "ivan", "")
	item := f.report(t, reporter, "Blue backpack", geo.Coordinates{})

	err := f.svc.Resolve(ctx, intruder.ID, item.ID)
	assert.ErrorIs(t, err, domainlost.ErrNotOwner)

	require.NoError(t, f.svc.Resolve(ctx, reporter.ID, item.ID))

	views, err := f.svc.Browse(ctx, reporter, nil)
	require.NoError(t, err)
	assert.Empty(t, views)
}
