// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authstub

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("authstub: account not found")

	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("authstub: email already registered")
)

// AccountRepository defines the data access contract for accounts.
type AccountRepository interface {
	// FindByEmail returns the account registered under email (case-insensitive).
	//
	// Returns [ErrNotFound] if none exists.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// Create assigns the next ID and persists the account.
	//
	// Returns [ErrDuplicateEmail] if the email is taken.
	Create(ctx context.Context, account *Account) error

	// MarkVerified records the verification time.
	MarkVerified(ctx context.Context, id int64, at time.Time) error
}

// RevocationList tracks logged-out token IDs until they would have expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, until time.Time)
	IsRevoked(ctx context.Context, jti string) bool
}

// MemoryStore keeps accounts and revoked token IDs in process memory.
//
// It implements both [AccountRepository] and [RevocationList].
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[string]*Account
	revoked  map[string]time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*Account),
		revoked:  make(map[string]time.Time),
	}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *account
	return &clone, nil
}

func (s *MemoryStore) Create(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(account.Email)
	if _, exists := s.accounts[key]; exists {
		return ErrDuplicateEmail
	}

	s.nextID++
	account.ID = s.nextID
	clone := *account
	s.accounts[key] = &clone
	return nil
}

func (s *MemoryStore) MarkVerified(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.ID == id {
			verifiedAt := at
			account.VerifiedAt = &verifiedAt
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, expiry := range s.revoked {
		if now.After(expiry) {
			delete(s.revoked, id)
		}
	}
	s.revoked[jti] = until
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, revoked := s.revoked[jti]
	return revoked
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
