package notify_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notifysvc "stuverse/internal/app/services/notify"
	domainnotif "stuverse/internal/domain/notification"
	domainuser "stuverse/internal/domain/user"
	"stuverse/internal/infra/storage/memory"
)

func newService(t *testing.T) (*notifysvc.Service, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	return &notifysvc.Service{
		Notifications: memory.NewNotificationRepository(),
		Users:         users,
	}, users
}

func seedUser(t *testing.T, repo *memory.UserRepository, id, name string) *domainuser.User {
	t.Helper()
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Name:         name,
		Email:        id + "@example.edu",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), u))
	return u
}

func TestNotifyAndList(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()
	sender := seedUser(t, users, "sender", "Sam")

	svc.Notify(ctx, notifysvc.Params{
		Recipient: "rcpt",
		Sender:    sender.ID,
		Type:      domainnotif.TypeRideJoin,
		Message:   "Sam joined your ride to Airport",
		RelatedID: "ride-1",
		Link:      "/rides",
	})

	views, err := svc.List(ctx, "rcpt")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domainnotif.TypeRideJoin, views[0].Type)
	assert.False(t, views[0].IsRead)
	require.NotNil(t, views[0].Sender)
	assert.Equal(t, "Sam", views[0].Sender.Name)
}

func TestNotifySwallowsInvalidInput(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// No recipient and no message: rejected by validation, but the caller
	// never sees a failure.
	svc.Notify(ctx, notifysvc.Params{Type: domainnotif.TypeSystem})

	views, err := svc.List(ctx, "rcpt")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestListCapsAtTwenty(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		svc.Notify(ctx, notifysvc.Params{
			Recipient: "rcpt",
			Type:      domainnotif.TypeSystem,
			Message:   fmt.Sprintf("event %d", i),
		})
	}

	views, err := svc.List(ctx, "rcpt")
	require.NoError(t, err)
	assert.Len(t, views, 20)
}

func TestSystemNotificationsHaveNoSender(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	svc.Notify(ctx, notifysvc.Params{
		Recipient: "rcpt",
		Type:      domainnotif.TypeSystem,
		Message:   "maintenance tonight",
	})

	views, err := svc.List(ctx, "rcpt")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Sender)
}

func TestMarkAllReadIsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	svc.Notify(ctx, notifysvc.Params{Recipient: "rcpt", Type: domainnotif.TypeSystem, Message: "a"})
	svc.Notify(ctx, notifysvc.Params{Recipient: "rcpt", Type: domainnotif.TypeSystem, Message: "b"})

	require.NoError(t, svc.MarkAllRead(ctx, "rcpt"))
	require.NoError(t, svc.MarkAllRead(ctx, "rcpt"))

	views, err := svc.List(ctx, "rcpt")
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.True(t, v.IsRead)
	}
}
