// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authstub is a local stand-in for the remote TinyTales auth API.

It speaks the same wire contract as the production service (multipart forms
in, the status/status_code/message/data/errors envelope out), so the
storefront client can be exercised end to end without network access.

Lifecycle of an account:

  - Register: created unverified, answered with a provisional token.
  - Verify: the emailed code (a fixed development code) marks it verified.
  - Login: only verified accounts receive a token.
  - Logout: the presented token's jti is revoked.
*/
package authstub

import (
	"encoding/json"
	"time"
)

// AccountType is the only account type the storefront registers.
const AccountType = "client"

// Account is a registered storefront customer.
//
// # Rules
//   - Email is unique.
//   - PasswordHash is produced by bcrypt exclusively.
//   - VerifiedAt is nil until the verification code is accepted.
type Account struct {
	ID                int64
	Name              string
	Email             string
	MobileCountryCode string
	Mobile            string
	PasswordHash      string
	VerificationCode  string
	VerifiedAt        *time.Time
	CreatedAt         time.Time
}

// IsVerified reports whether the email address was confirmed.
func (a *Account) IsVerified() bool {
	return a.VerifiedAt != nil
}

// UserPayload is the "data" member describing an account.
type UserPayload struct {
	ID                int64           `json:"id"`
	Type              string          `json:"type"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	MobileCountryCode string          `json:"mobile_country_code"`
	Mobile            string          `json:"mobile"`
	Image             string          `json:"image"`
	EmailVerifiedAt   *time.Time      `json:"email_verified_at"`
	Token             string          `json:"token,omitempty"`
	IsComplete        bool            `json:"is_complete"`
	IsApproved        bool            `json:"is_approved"`
	StatusDocs        string          `json:"status_docs"`
	Documents         json.RawMessage `json:"documents"`
}

// payload renders the account, attaching token when non-empty.
func (a *Account) payload(token string) *UserPayload {
	return &UserPayload{
		ID:                a.ID,
		Type:              AccountType,
		Name:              a.Name,
		Email:             a.Email,
		MobileCountryCode: a.MobileCountryCode,
		Mobile:            a.Mobile,
		EmailVerifiedAt:   a.VerifiedAt,
		Token:             token,
		IsComplete:        true,
		IsApproved:        a.IsVerified(),
		StatusDocs:        "pending",
		Documents:         json.RawMessage(`[]`),
	}
}
