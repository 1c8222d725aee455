package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// UserRecord is a stored account.
type UserRecord struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// MemoryUsers is an in-memory user directory keyed by normalized email.
type MemoryUsers struct {
	mu      sync.RWMutex
	byEmail map[string]*UserRecord
	byID    map[uuid.UUID]*UserRecord
}

// NewMemoryUsers creates an empty directory.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byEmail: make(map[string]*UserRecord),
		byID:    make(map[uuid.UUID]*UserRecord),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a user. Emails are unique case-insensitively.
func (u *MemoryUsers) CreateUser(_ context.Context, name, email, passwordHash string) (*UserRecord, error) {
	key := normalizeEmail(email)

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.byEmail[key]; exists {
		return nil, ErrEmailTaken
	}
	rec := &UserRecord{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        key,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	u.byEmail[key] = rec
	u.byID[rec.ID] = rec

	out := *rec
	return &out, nil
}

// GetUserByEmail returns the user or nil when none is registered.
func (u *MemoryUsers) GetUserByEmail(_ context.Context, email string) (*UserRecord, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	rec, ok := u.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	out := *rec
	return &out, nil
}

// GetUser returns the user or nil when the id is unknown.
func (u *MemoryUsers) GetUser(_ context.Context, id uuid.UUID) (*UserRecord, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	rec, ok := u.byID[id]
	if !ok {
		return nil, nil
	}
	out := *rec
	return &out, nil
}
