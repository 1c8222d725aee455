package server

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/upskill-roadmap/internal/config"
	"github.com/jonathan/upskill-roadmap/internal/store"
	"github.com/jonathan/upskill-roadmap/internal/types"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	passwordConfig, err := config.NewPasswordConfig(10, "")
	require.NoError(t, err)
	return NewUserService(store.NewMemoryUsers(), passwordConfig)
}

func TestToUser(t *testing.T) {
	assert.Nil(t, toUser(nil))

	rec := &store.UserRecord{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	user := toUser(rec)
	assert.Equal(t, rec.ID, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ada", Email: "Ada@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)

	got, err := svc.Login(ctx, &types.LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	me, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.Name)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &types.CreateUserRequest{Name: "Other", Email: "ADA@example.com", Password: "password456"})
	var dup *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &dup)
}

func TestUserService_LoginFailures(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	var credErr *ErrInvalidCredentials
	_, err = svc.Login(ctx, &types.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorAs(t, err, &credErr)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorAs(t, err, &credErr)
}

func TestUserService_GetUnknownUser(t *testing.T) {
	_, err := newTestUserService(t).GetUser(context.Background(), uuid.New())
	assert.Equal(t, types.KindNotFound, types.ErrorKind(err))
}
