package chat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatsvc "stuverse/internal/app/services/chat"
	domainchat "stuverse/internal/domain/chat"
	domainuser "stuverse/internal/domain/user"
	"stuverse/internal/infra/storage/memory"
)

func seedUser(t *testing.T, repo *memory.UserRepository, id, name, university string) *domainuser.User {
	t.Helper()
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Name:         name,
		Email:        id + "@example.edu",
		PasswordHash: "x",
		University:   university,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), u))
	return u
}

func newService(t *testing.T) (*chatsvc.Service, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	return &chatsvc.Service{
		Messages: memory.NewMessageRepository(),
		Users:    users,
	}, users
}

func TestSendAndHistoryRoundTrip(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "alice", "Alice", "State U")
	bob := seedUser(t, users, "bob", "Bob", "State U")

	sent, err := svc.Send(ctx, alice.ID, bob.ID, "hey, is the bike still for sale?")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, sent.Sender.ID)
	assert.Equal(t, bob.ID, sent.Recipient.ID)
	assert.NotEmpty(t, sent.ID)
	assert.False(t, sent.CreatedAt.IsZero())

	history, err := svc.History(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, sent.ID, history[0].ID)
	assert.Equal(t, "hey, is the bike still for sale?", history[0].Content)
}

func TestHistoryIsSymmetricAndChronological(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "alice", "Alice", "")
	bob := seedUser(t, users, "bob", "Bob", "")
	carol := seedUser(t, users, "carol", "Carol", "")

	_, err := svc.Send(ctx, alice.ID, bob.ID, "first")
	require.NoError(t, err)
	_, err = svc.Send(ctx, bob.ID, alice.ID, "second")
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice.ID, carol.ID, "unrelated")
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice.ID, bob.ID, "third")
	require.NoError(t, err)

	forward, err := svc.History(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	backward, err := svc.History(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	require.Len(t, forward, 3)
	assert.Equal(t, forward, backward)
	assert.Equal(t, "first", forward[0].Content)
	assert.Equal(t, "second", forward[1].Content)
	assert.Equal(t, "third", forward[2].Content)
}

func TestSendRejectsEmptyContent(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "alice", "Alice", "")
	bob := seedUser(t, users, "bob", "Bob", "")

	_, err := svc.Send(ctx, alice.ID, bob.ID, "   ")
	assert.ErrorIs(t, err, domainchat.ErrEmptyContent)
}

func TestSendRejectsUnknownRecipient(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "alice", "Alice", "")

	_, err := svc.Send(ctx, alice.ID, "ghost", "hello?")
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
}

func TestConversationsFoldPerCounterpart(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "alice", "Alice", "")
	bob := seedUser(t, users, "bob", "Bob", "")
	carol := seedUser(t, users, "carol", "Carol", "")

	_, err := svc.Send(ctx, alice.ID, bob.ID, "to bob, old")
	require.NoError(t, err)
	_, err = svc.Send(ctx, carol.ID, alice.ID, "from carol")
	require.NoError(t, err)
	_, err = svc.Send(ctx, bob.ID, alice.ID, "to alice, latest")
	require.NoError(t, err)

	conversations, err := svc.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	// One row per counterpart, ordered by recency, carrying the newest
	// message regardless of direction.
	assert.Equal(t, bob.ID, conversations[0].User.ID)
	assert.Equal(t, "to alice, latest", conversations[0].LastMessage)
	assert.Equal(t, carol.ID, conversations[1].User.ID)
	assert.Equal(t, "from carol", conversations[1].LastMessage)
}

func TestConversationsSkipDeletedCounterparts(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "alice", "Alice", "")
	bob := seedUser(t, users, "bob", "Bob", "")

	_, err := svc.Send(ctx, alice.ID, bob.ID, "hi")
	require.NoError(t, err)

	// Same message store, but the counterpart record is gone.
	orphan := &chatsvc.Service{Messages: svc.Messages, Users: memory.NewUserRepository()}
	conversations, err := orphan.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestHistoryKeepsMessagesFromDeletedAccounts(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()
	alice := seedUser(t, users, "alice", "Alice", "")
	bob := seedUser(t, users, "bob", "Bob", "")

	_, err := svc.Send(ctx, bob.ID, alice.ID, "before deletion")
	require.NoError(t, err)

	// Same message store, but bob's account no longer resolves.
	fresh := memory.NewUserRepository()
	require.NoError(t, fresh.Save(ctx, alice))
	orphan := &chatsvc.Service{Messages: svc.Messages, Users: fresh}

	history, err := orphan.History(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, bob.ID, history[0].Sender.ID)
	assert.Empty(t, history[0].Sender.Name)
}
