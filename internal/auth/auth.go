// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth is the storefront's client for the remote TinyTales auth API.

Every operation posts a multipart form (or issues a bare GET) through the
shared [transport.Client] and returns the decoded [Result]. The service never
touches the session: storing tokens and names is the caller's decision.

Failures are always [*apperr.AppError].
*/
package auth

import (
	"bytes"
	"encoding/json"
)

// Result is the response envelope of every auth endpoint.
type Result struct {
	Status     bool      `json:"status"`
	StatusCode int       `json:"status_code"`
	Data       *UserData `json:"data,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// UserData is the account payload returned by register, login and user-data.
type UserData struct {
	ID                int64           `json:"id"`
	Type              string          `json:"type"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	MobileCountryCode string          `json:"mobile_country_code"`
	Mobile            string          `json:"mobile"`
	Image             string          `json:"image"`
	EmailVerifiedAt   json.RawMessage `json:"email_verified_at,omitempty"`
	Token             string          `json:"token"`
	IsComplete        bool            `json:"is_complete"`
	IsApproved        bool            `json:"is_approved"`
	StatusDocs        string          `json:"status_docs"`
	Documents         json.RawMessage `json:"documents,omitempty"`
}

// Token returns the payload token, or "" when there is no payload.
func (r *Result) Token() string {
	if r == nil || r.Data == nil {
		return ""
	}
	return r.Data.Token
}

// Name returns the payload name, or "" when there is no payload.
func (r *Result) Name() string {
	if r == nil || r.Data == nil {
		return ""
	}
	return r.Data.Name
}

// UnmarshalJSON decodes the envelope, keeping Data nil unless the member is an object.
//
// The API sends "data": [] or "data": null on actions without a payload.
func (r *Result) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Status     bool            `json:"status"`
		StatusCode int             `json:"status_code"`
		Data       json.RawMessage `json:"data"`
		Message    string          `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	*r = Result{
		Status:     envelope.Status,
		StatusCode: envelope.StatusCode,
		Message:    envelope.Message,
	}

	payload := bytes.TrimSpace(envelope.Data)
	if len(payload) == 0 || payload[0] != '{' {
		return nil
	}

	var user UserData
	if err := json.Unmarshal(payload, &user); err != nil {
		return err
	}
	r.Data = &user
	return nil
}

// RegisterInput is the registration form, in wire order.
type RegisterInput struct {
	Name                 string
	Email                string
	Mobile               string
	Password             string
	PasswordConfirmation string
	MobileCountryCode    string
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string
	Password string
}
