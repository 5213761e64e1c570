// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authstub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/internal/platform/config"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/sec"
	"github.com/taibuivan/tinytales/internal/platform/validate"
)

// Messages returned by the stub, mirroring the production API.
const (
	MsgRegistered       = "Account created. A verification code was sent to your email."
	MsgLoggedIn         = "Logged in successfully."
	MsgVerified         = "Email verified successfully."
	MsgAlreadyVerified  = "Email already verified."
	MsgCodeSent         = "A new verification code was sent to your email."
	MsgUserData         = "User data retrieved."
	MsgLoggedOut        = "Logged out successfully."
	MsgBadCredentials   = "These credentials do not match our records."
	MsgNotVerified      = "Please verify your email address first."
	MsgThrottled        = "Too many requests. Please try again later."
	MsgUnauthenticated  = "Unauthenticated."
	msgNameTooShort     = "The name must be at least 2 characters."
	msgEmailInvalid     = "The email must be a valid email address."
	msgEmailTaken       = "The email has already been taken."
	msgMobileInvalid    = "The mobile number is invalid."
	msgPasswordRequired = "The password field is required."
	msgPasswordShort    = "The password must be at least 8 characters."
	msgPasswordMismatch = "The password confirmation does not match."
	msgCountryRequired  = "The mobile country code field is required."
	msgCodeInvalid      = "The verification code is invalid."
)

// RegisterInput holds the data required to enroll a new customer.
type RegisterInput struct {
	Name                 string
	Email                string
	Mobile               string
	Password             string
	PasswordConfirmation string
	MobileCountryCode    string
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// Service implements the auth API use cases over an [AccountRepository].
type Service struct {
	accounts         AccountRepository
	revocations      RevocationList
	tokens           *sec.TokenService
	verificationCode string
	tokenTTL         time.Duration

	limiterMu sync.Mutex
	limiters  map[int64]*rate.Limiter
}

// NewService constructs a [Service] with its dependencies.
func NewService(accounts AccountRepository, revocations RevocationList, tokens *sec.TokenService, cfg *config.StubConfig) *Service {
	return &Service{
		accounts:         accounts,
		revocations:      revocations,
		tokens:           tokens,
		verificationCode: cfg.VerificationCode,
		tokenTTL:         cfg.TokenTTL,
		limiters:         make(map[int64]*rate.Limiter),
	}
}

// VerifyToken checks signature and expiry, then rejects revoked tokens.
//
// It satisfies the bearer middleware's verifier contract.
func (service *Service) VerifyToken(token string) (*sec.AuthClaims, error) {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	if service.revocations.IsRevoked(context.Background(), claims.ID) {
		return nil, errors.New("authstub: token revoked")
	}
	return claims, nil
}

// Register validates, hashes and persists a new unverified account.
//
// # Returns
//   - The account payload carrying a provisional token.
//   - A validation [*apperr.AppError] for bad input or a taken email.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*UserPayload, error) {
	// ── 1. Input Validation ───────────────────────────────────────────────

	v := &validate.Validator{}
	v.MinLen(constants.FieldName, input.Name, 2, msgNameTooShort).
		Email(constants.FieldEmail, input.Email, msgEmailInvalid).
		Phone(constants.FieldMobile, input.MobileCountryCode, input.Mobile, msgMobileInvalid).
		Required(constants.FieldPassword, input.Password, msgPasswordRequired).
		MinLen(constants.FieldPassword, input.Password, 8, msgPasswordShort).
		Equal(constants.FieldPasswordConfirmation, input.PasswordConfirmation, input.Password, msgPasswordMismatch).
		Required(constants.FieldMobileCountryCode, input.MobileCountryCode, msgCountryRequired)
	if err := v.Err(); err != nil {
		return nil, err
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("authstub_register_hash_failed: %w", err)
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	account := &Account{
		Name:              input.Name,
		Email:             input.Email,
		MobileCountryCode: input.MobileCountryCode,
		Mobile:            input.Mobile,
		PasswordHash:      hashedPassword,
		VerificationCode:  service.verificationCode,
		CreatedAt:         time.Now(),
	}
	if err := service.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperr.Validation(http.StatusUnprocessableEntity, "", apperr.FieldErrors{
				{Field: constants.FieldEmail, Messages: []string{msgEmailTaken}},
			})
		}
		return nil, fmt.Errorf("authstub_register_failed: %w", err)
	}

	// ── 4. Provisional Token ──────────────────────────────────────────────

	token, err := service.issue(account)
	if err != nil {
		return nil, err
	}
	return account.payload(token), nil
}

// Login validates credentials and issues a token for a verified account.
func (service *Service) Login(ctx context.Context, input LoginInput) (*UserPayload, error) {
	v := &validate.Validator{}
	v.Email(constants.FieldEmail, input.Email, msgEmailInvalid).
		Required(constants.FieldPassword, input.Password, msgPasswordRequired)
	if err := v.Err(); err != nil {
		return nil, err
	}

	account, err := service.accounts.FindByEmail(ctx, input.Email)
	if err != nil || !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		// Same answer for unknown email and wrong password.
		return nil, apperr.Unauthorized(MsgBadCredentials)
	}

	if !account.IsVerified() {
		return nil, apperr.Server(http.StatusForbidden, MsgNotVerified, nil)
	}

	token, err := service.issue(account)
	if err != nil {
		return nil, err
	}
	return account.payload(token), nil
}

// Verify accepts the emailed code for the account behind the token.
//
// It returns the message to show, which differs for an already verified account.
func (service *Service) Verify(ctx context.Context, email, code string) (string, error) {
	account, err := service.lookup(ctx, email)
	if err != nil {
		return "", err
	}
	if account.IsVerified() {
		return MsgAlreadyVerified, nil
	}

	if code != account.VerificationCode {
		return "", apperr.Validation(http.StatusUnprocessableEntity, "", apperr.FieldErrors{
			{Field: constants.FieldCode, Messages: []string{msgCodeInvalid}},
		})
	}

	if err := service.accounts.MarkVerified(ctx, account.ID, time.Now()); err != nil {
		return "", fmt.Errorf("authstub_verify_failed: %w", err)
	}
	return MsgVerified, nil
}

// ResendCode "sends" a new code, throttled per account.
func (service *Service) ResendCode(ctx context.Context, email string) error {
	account, err := service.lookup(ctx, email)
	if err != nil {
		return err
	}
	if !service.limiter(account.ID).Allow() {
		return apperr.Server(http.StatusTooManyRequests, MsgThrottled, nil)
	}
	return nil
}

// UserData returns the payload of the account behind the token.
func (service *Service) UserData(ctx context.Context, email string) (*UserPayload, error) {
	account, err := service.lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	return account.payload(""), nil
}

// Logout revokes the presented token. Revoking twice is harmless.
func (service *Service) Logout(ctx context.Context, jti string) {
	service.revocations.Revoke(ctx, jti, time.Now().Add(service.tokenTTL))
}

// lookup resolves a token subject; a deleted account reads as unauthenticated.
func (service *Service) lookup(ctx context.Context, email string) (*Account, error) {
	account, err := service.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Unauthorized(MsgUnauthenticated)
	}
	return account, nil
}

func (service *Service) issue(account *Account) (string, error) {
	token, _, err := service.tokens.GenerateAccessToken(strconv.FormatInt(account.ID, 10), account.Email, service.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("authstub_token_generation_failed: %w", err)
	}
	return token, nil
}

func (service *Service) limiter(accountID int64) *rate.Limiter {
	service.limiterMu.Lock()
	defer service.limiterMu.Unlock()

	limiter, ok := service.limiters[accountID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(constants.ResendCodeInterval), constants.ResendCodeBurst)
		service.limiters[accountID] = limiter
	}
	return limiter
}
