package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authsvc "stuverse/internal/app/services/auth"
	domainuser "stuverse/internal/domain/user"
	"stuverse/internal/infra/security"
	"stuverse/internal/infra/storage/memory"
)

func newService() *authsvc.Service {
	return &authsvc.Service{
		Users:     memory.NewUserRepository(),
		Passwords: security.BcryptHasher{Cost: 4}, // minimum cost, tests only
		Tokens:    security.TokenCodec{Secret: []byte("test-secret"), TTL: time.Hour},
	}
}

func TestRegisterLoginResolveRoundTrip(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, authsvc.RegisterParams{
		Name:       "Alice",
		Email:      "Alice@Example.EDU",
		Password:   "correct horse",
		University: "State U",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.edu", registered.User.Email)
	assert.Equal(t, "State U", registered.User.University)
	assert.NotEmpty(t, registered.Token)

	loggedIn, err := svc.Login(ctx, authsvc.LoginParams{
		Email:    "alice@example.edu",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	resolved, err := svc.Resolve(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resolved.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, authsvc.RegisterParams{
		Name:     "Alice",
		Email:    "alice@example.edu",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, authsvc.RegisterParams{
		Name:     "Imposter",
		Email:    "ALICE@example.edu",
		Password: "another pass",
	})
	assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newService()
	_, err := svc.Register(context.Background(), authsvc.RegisterParams{
		Name:     "Alice",
		Email:    "alice@example.edu",
		Password: "short",
	})
	assert.ErrorIs(t, err, authsvc.ErrPasswordTooShort)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	_, err := svc.Register(ctx, authsvc.RegisterParams{
		Name:     "Alice",
		Email:    "alice@example.edu",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, authsvc.LoginParams{Email: "alice@example.edu", Password: "wrong"})
	assert.ErrorIs(t, err, authsvc.ErrInvalidCredentials)

	_, err = svc.Login(ctx, authsvc.LoginParams{Email: "nobody@example.edu", Password: "whatever"})
	assert.ErrorIs(t, err, authsvc.ErrInvalidCredentials)
}

func TestResolveRejectsGarbageToken(t *testing.T) {
	svc := newService()
	_, err := svc.Resolve(context.Background(), "not a token")
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, authsvc.RegisterParams{
		Name:     "Alice",
		Email:    "alice@example.edu",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, domainuser.UniversityUnspecified, registered.User.University)

	updated, err := svc.UpdateProfile(ctx, registered.User.ID, domainuser.ProfileUpdate{
		University: "State U",
		Bio:        "third year, CS",
	})
	require.NoError(t, err)
	assert.Equal(t, "State U", updated.University)
	assert.Equal(t, "third year, CS", updated.Bio)
	assert.Equal(t, "Alice", updated.Name)
}
