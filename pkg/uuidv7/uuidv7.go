// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// # Usage
//
// Request ids sent with every outgoing API call and token ids issued by the
// auth stub are UUIDv7 strings, so log lines and revocation entries sort by
// creation time.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It falls back to a random UUIDv4 when the v7 clock sequence cannot be read.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}

	return id.String()
}

// Valid reports whether s parses as any UUID.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
