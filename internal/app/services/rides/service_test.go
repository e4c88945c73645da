package rides_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notifysvc "stuverse/internal/app/services/notify"
	ridesvc "stuverse/internal/app/services/rides"
	domainnotif "stuverse/internal/domain/notification"
	domainrides "stuverse/internal/domain/rides"
	domainuser "stuverse/internal/domain/user"
	"stuverse/internal/infra/storage/memory"
)

type fixture struct {
	svc    *ridesvc.Service
	notify *notifysvc.Service
	users  *memory.UserRepository
	outbox *memory.Outbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := memory.NewUserRepository()
	notifier := &notifysvc.Service{
		Notifications: memory.NewNotificationRepository(),
		Users:         users,
	}
	box := memory.NewOutbox()
	return &fixture{
		svc: &ridesvc.Service{
			Rides:    memory.NewRideRepository(),
			Users:    users,
			Notifier: notifier,
			Outbox:   box,
		},
		notify: notifier,
		users:  users,
		outbox: box,
	}
}

func (f *fixture) seedUser(t *testing.T, id, name, university string) *domainuser.User {
	t.Helper()
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Name:         name,
		Email:        id + "@example.edu",
		PasswordHash: "x",
		University:   university,
	})
	require.NoError(t, err)
	require.NoError(t, f.users.Save(context.Background(), u))
	return u
}

func (f *fixture) createRide(t *testing.T, host *domainuser.User, seats int) *domainrides.Ride {
	t.Helper()
	ride, err := f.svc.Create(context.Background(), host, ridesvc.CreateParams{
		Type:     domainrides.TypeOffer,
		OriginName: "Campus",
		DestName: "Airport",
		Date:     time.Now().Add(24 * time.Hour),
		Seats:    seats,
		Price:    10,
	})
	require.NoError(t, err)
	return ride
}

func TestJoinNotifiesHost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.seedUser(t, "host", "Hana", "State U")
	rider := f.seedUser(t, "rider", "Riley", "State U")
	ride := f.createRide(t, host, 3)

	view, err := f.svc.Join(ctx, rider, ride.ID)
	require.NoError(t, err)
	require.Len(t, view.Participants, 1)
	assert.Equal(t, rider.ID, view.Participants[0].ID)
	assert.Equal(t, domainrides.StatusOpen, view.Ride.Status)

	notifications, err := f.notify.List(ctx, host.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, domainnotif.TypeRideJoin, notifications[0].Type)
	assert.Equal(t, "Riley joined your ride to Airport", notifications[0].Message)
	assert.Equal(t, string(ride.ID), notifications[0].RelatedID)

	records := f.outbox.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "ride.joined", records[0].Name)
}

func TestJoinGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.seedUser(t, "host", "Hana", "")
	rider := f.seedUser(t, "rider", "Riley", "")
	other := f.seedUser(t, "other", "Omar", "")
	ride := f.createRide(t, host, 1)

	_, err := f.svc.Join(ctx, host, ride.ID)
	assert.ErrorIs(t, err, domainrides.ErrOwnRide)

	_, err = f.svc.Join(ctx, rider, ride.ID)
	require.NoError(t, err)

	_, err = f.svc.Join(ctx, rider, ride.ID)
	assert.ErrorIs(t, err, domainrides.ErrNotOpen)

	_, err = f.svc.Join(ctx, other, ride.ID)
	assert.ErrorIs(t, err, domainrides.ErrNotOpen)
}

func TestLastSeatFlipsToFullAndLeaveReopens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.seedUser(t, "host", "Hana", "")
	rider := f.seedUser(t, "rider", "Riley", "")
	ride := f.createRide(t, host, 1)

	view, err := f.svc.Join(ctx, rider, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, domainrides.StatusFull, view.Ride.Status)

	require.NoError(t, f.svc.Leave(ctx, rider.ID, ride.ID))

	reloaded, err := f.svc.Rides.ByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, domainrides.StatusOpen, reloaded.Status)
	assert.Empty(t, reloaded.Participants)
}

func TestLeaveWithoutJoinIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.seedUser(t, "host", "Hana", "")
	stranger := f.seedUser(t, "stranger", "Sky", "")
	ride := f.createRide(t, host, 2)

	require.NoError(t, f.svc.Leave(ctx, stranger.ID, ride.ID))

	reloaded, err := f.svc.Rides.ByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Participants)
}

func TestBrowseScopesByUniversity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hostA := f.seedUser(t, "hosta", "Ana", "State U")
	hostB := f.seedUser(t, "hostb", "Ben", "Tech U")
	f.createRide(t, hostA, 2)
	f.createRide(t, hostB, 2)

	scoped, err := f.svc.Browse(ctx, hostA, ridesvc.BrowseParams{})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "State U", scoped[0].Ride.University)

	unscoped := f.seedUser(t, "nomad", "Nia", "")
	all, err := f.svc.Browse(ctx, unscoped, ridesvc.BrowseParams{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
