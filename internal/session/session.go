// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session holds the storefront's persisted authentication state.

The session has exactly two fields, each kept under a fixed key of the
durable [kv.Store]:

  - token (auth_token): The bearer credential. Its presence is the only
    authorization signal.
  - display name (user_name): A cached name used for display only.

All reads are pure and all writes are idempotent. When the medium is
unavailable every read is absent and every write is a no-op.
*/
package session

import (
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/kv"
)

// Session is a point-in-time copy of both fields.
type Session struct {
	Token       string
	DisplayName string
}

// Authenticated reports whether the snapshot carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store is the typed layer over the durable key-value medium.
type Store struct {
	kv kv.Store
}

// NewStore wraps a key-value backend. A nil backend behaves as [kv.Nop].
func NewStore(backend kv.Store) *Store {
	if backend == nil {
		backend = kv.Nop{}
	}
	return &Store{kv: backend}
}

// Token returns the bearer token, or false when absent.
func (s *Store) Token() (string, bool) {
	return s.read(constants.StorageKeyToken)
}

// DisplayName returns the cached display name, or false when absent.
func (s *Store) DisplayName() (string, bool) {
	return s.read(constants.StorageKeyUserName)
}

// SetToken stores the bearer token.
func (s *Store) SetToken(token string) {
	s.kv.Set(constants.StorageKeyToken, token)
}

// SetDisplayName stores the cached display name.
func (s *Store) SetDisplayName(name string) {
	s.kv.Set(constants.StorageKeyUserName, name)
}

// RemoveToken removes only the token, keeping the display name.
func (s *Store) RemoveToken() {
	s.kv.Remove(constants.StorageKeyToken)
}

// Clear removes both fields.
//
// Other keys sharing the medium are left alone.
func (s *Store) Clear() {
	s.kv.Remove(constants.StorageKeyToken)
	s.kv.Remove(constants.StorageKeyUserName)
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// Snapshot returns both fields at once.
func (s *Store) Snapshot() Session {
	token, _ := s.Token()
	name, _ := s.DisplayName()
	return Session{Token: token, DisplayName: name}
}

// read treats an empty stored value as absent.
func (s *Store) read(key string) (string, bool) {
	value, ok := s.kv.Get(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
