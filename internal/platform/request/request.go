// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It keeps form parsing and access to the authenticated identity in one place,
so handlers share the same error handling.
*/
package requestutil

import (
	"errors"
	"net/http"

	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/ctxutil"
)

// MsgMalformedForm is returned for bodies that are not a parseable form.
const MsgMalformedForm = "Malformed form body."

/*
ParseForm reads a multipart body, falling back to a url-encoded one.

Parameters:
  - request: *http.Request

Returns:
  - error: A 400 [apperr.AppError] if the body cannot be parsed, otherwise nil
*/
func ParseForm(request *http.Request) error {
	err := request.ParseMultipartForm(constants.MaxMultipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = request.ParseForm()
	}
	if err != nil {
		return apperr.Server(http.StatusBadRequest, MsgMalformedForm, err)
	}
	return nil
}

/*
Field returns a form value after [ParseForm].
*/
func Field(request *http.Request, name string) string {
	return request.PostFormValue(name)
}

/*
RequiredSubject returns the email of the authenticated account.

Returns:
  - string: Subject taken from the verified bearer token
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredSubject(request *http.Request) (string, error) {

	// Get the subject injected by the authentication middleware
	subject := ctxutil.GetSubject(request.Context())

	// If the user is not authenticated, return an error
	if subject == "" {
		return "", apperr.Unauthorized("Unauthenticated.")
	}

	return subject, nil
}

/*
TokenID returns the jti of the presented bearer token, or "" when anonymous.
*/
func TokenID(request *http.Request) string {
	return ctxutil.GetTokenID(request.Context())
}
