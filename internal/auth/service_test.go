package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storeroom-app/storeroom/internal/shared"
)

type memoryRepo struct {
	nextID   int64
	byEmail  map[string]*User
	sessions map[string]time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byEmail: make(map[string]*User), sessions: make(map[string]time.Time)}
}

func (m *memoryRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (m *memoryRepo) FindByID(_ context.Context, id int64) (*User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) CreateUser(_ context.Context, email, passwordHash string) (*User, error) {
	if _, ok := m.byEmail[email]; ok {
		return nil, ErrEmailTaken
	}
	user := &User{ID: m.nextID, Email: email, PasswordHash: passwordHash, IsActive: true}
	m.byEmail[email] = user
	m.nextID++
	return user, nil
}

func (m *memoryRepo) CreateSession(_ context.Context, id string, _ int64, expiresAt time.Time, _, _ string) error {
	m.sessions[id] = expiresAt
	return nil
}

func (m *memoryRepo) DeleteSession(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *memoryRepo) DeleteExpiredSessions(_ context.Context) (int64, error) {
	var removed int64
	for id, expiresAt := range m.sessions {
		if expiresAt.Before(time.Now()) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Owner@Example.COM ", "supersecret")
	require.NoError(t, err)
	require.Equal(t, "owner@example.com", user.Email, "emails are normalised before storage")
	require.NotEqual(t, "supersecret", user.PasswordHash)

	authed, err := svc.Authenticate(ctx, "owner@example.com", "supersecret")
	require.NoError(t, err)
	require.Equal(t, user.ID, authed.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "owner@example.com", "supersecret")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "owner@example.com", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, "owner@example.com", "supersecret")
	require.NoError(t, err)
	user.IsActive = false

	_, err = svc.Authenticate(ctx, "owner@example.com", "supersecret")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "owner@example.com", "supersecret")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "OWNER@example.com", "anotherpass")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestPruneSessions(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.RegisterSession(ctx, "live", 1, time.Now().Add(time.Hour), "", ""))
	require.NoError(t, svc.RegisterSession(ctx, "stale", 1, time.Now().Add(-time.Hour), "", ""))

	removed, err := svc.PruneSessions(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)
	_, live := repo.sessions["live"]
	require.True(t, live)
}
