// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/transport"
)

// Doer sends one request through the configured transport.
type Doer interface {
	Do(ctx context.Context, req *transport.Request) (*transport.Response, error)
}

// Service implements the remote auth operations.
type Service struct {
	client Doer
}

// NewService constructs a [Service] over the shared transport client.
func NewService(client Doer) *Service {
	return &Service{client: client}
}

// Register creates an account. The returned token is provisional until verified.
//
// # Returns
//   - The decoded [*Result]; the token is in Result.Data.
//   - [*apperr.AppError] with field errors when the input is rejected.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Result, error) {
	form := transport.NewForm().
		Add(constants.FieldName, input.Name).
		Add(constants.FieldEmail, input.Email).
		Add(constants.FieldMobile, input.Mobile).
		Add(constants.FieldPassword, input.Password).
		Add(constants.FieldPasswordConfirmation, input.PasswordConfirmation).
		Add(constants.FieldMobileCountryCode, input.MobileCountryCode)

	return service.call(ctx, transport.NewRequest(http.MethodPost, constants.PathRegister, form))
}

// Login exchanges credentials for a bearer token and the account name.
func (service *Service) Login(ctx context.Context, input LoginInput) (*Result, error) {
	form := transport.NewForm().
		Add(constants.FieldEmail, input.Email).
		Add(constants.FieldPassword, input.Password)

	return service.call(ctx, transport.NewRequest(http.MethodPost, constants.PathLogin, form))
}

// Verify submits the emailed verification code for the current token.
func (service *Service) Verify(ctx context.Context, code string) (*Result, error) {
	form := transport.NewForm().Add(constants.FieldCode, code)
	return service.call(ctx, transport.NewRequest(http.MethodPost, constants.PathVerify, form))
}

// ResendCode asks the API to email a fresh verification code.
func (service *Service) ResendCode(ctx context.Context) (*Result, error) {
	return service.call(ctx, transport.NewRequest(http.MethodPost, constants.PathResendCode, transport.NewForm()))
}

// CurrentUser fetches the account behind the current token.
func (service *Service) CurrentUser(ctx context.Context) (*Result, error) {
	return service.call(ctx, transport.NewRequest(http.MethodGet, constants.PathUserData, nil))
}

// Logout revokes the token on the server.
//
// A non-empty token is sent explicitly so the call still authenticates after
// the local session was cleared. Callers treat the outcome as best effort.
func (service *Service) Logout(ctx context.Context, token string) error {
	req := transport.NewRequest(http.MethodPost, constants.PathLogout, transport.NewForm())
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, constants.AuthSchemeBearer+" "+token)
	}

	_, err := service.client.Do(ctx, req)
	return err
}

// call sends req and decodes a successful body into a [Result].
func (service *Service) call(ctx context.Context, req *transport.Request) (*Result, error) {
	resp, err := service.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var result Result
	if err := resp.Decode(&result); err != nil {
		return nil, apperr.Server(resp.StatusCode, "", fmt.Errorf("auth: %s %s: %w", req.Method, req.Path, err))
	}
	return &result, nil
}
