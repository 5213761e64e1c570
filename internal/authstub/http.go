// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authstub

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/middleware"
	requestutil "github.com/taibuivan/tinytales/internal/platform/request"
	"github.com/taibuivan/tinytales/internal/platform/respond"
)

// Handler implements the auth API endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the auth router, mounted under /api/auth.
//
// # Endpoints
//   - POST /register                  : Creates an unverified account.
//   - POST /login                     : Issues a token for a verified account.
//   - POST /verify-email              : Accepts the verification code (bearer).
//   - POST /verify-email/resend-code  : Sends a new code, throttled (bearer).
//   - GET  /user-data                 : Returns the current account (bearer).
//   - POST /logout                    : Revokes the presented token (bearer).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Post("/verify-email", handler.verify)
		protected.Post("/verify-email/resend-code", handler.resendCode)
		protected.Get("/user-data", handler.userData)
		protected.Post("/logout", handler.logout)
	})

	return router
}

// register handles POST /api/auth/register.
//
// # Returns
//   - 201 with the account and a provisional token.
//   - 422 with field errors for invalid input or a taken email.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseForm(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), RegisterInput{
		Name:                 requestutil.Field(request, constants.FieldName),
		Email:                requestutil.Field(request, constants.FieldEmail),
		Mobile:               requestutil.Field(request, constants.FieldMobile),
		Password:             requestutil.Field(request, constants.FieldPassword),
		PasswordConfirmation: requestutil.Field(request, constants.FieldPasswordConfirmation),
		MobileCountryCode:    requestutil.Field(request, constants.FieldMobileCountryCode),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, MsgRegistered, user)
}

// login handles POST /api/auth/login.
//
// # Returns
//   - 200 with the account and its token.
//   - 401 for bad credentials, 403 for an unverified account.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseForm(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Login(request.Context(), LoginInput{
		Email:    requestutil.Field(request, constants.FieldEmail),
		Password: requestutil.Field(request, constants.FieldPassword),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, MsgLoggedIn, user)
}

// verify handles POST /api/auth/verify-email.
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	subject, err := requestutil.RequiredSubject(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := requestutil.ParseForm(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.Verify(request.Context(), subject, requestutil.Field(request, constants.FieldCode))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, message, nil)
}

// resendCode handles POST /api/auth/verify-email/resend-code.
//
// # Returns
//   - 200 when a new code was sent.
//   - 429 when the account exceeded its resend allowance.
func (handler *Handler) resendCode(writer http.ResponseWriter, request *http.Request) {
	subject, err := requestutil.RequiredSubject(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ResendCode(request.Context(), subject); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, MsgCodeSent, nil)
}

// userData handles GET /api/auth/user-data.
func (handler *Handler) userData(writer http.ResponseWriter, request *http.Request) {
	subject, err := requestutil.RequiredSubject(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UserData(request.Context(), subject)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, MsgUserData, user)
}

// logout handles POST /api/auth/logout. The response data is an empty list.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.service.Logout(request.Context(), requestutil.TokenID(request))
	respond.OK(writer, MsgLoggedOut, []any{})
}
