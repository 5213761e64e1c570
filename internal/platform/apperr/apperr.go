// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the normalized failure shape of the storefront client.

Every failure that leaves the transport or the auth service is an [AppError], so
page controllers have exactly one shape to render.

Architecture:

  - Kind: validation, authorization, connectivity, or server.
  - Fields: Ordered per-field validation messages, in the order the server sent them.
  - Describe: The single normalization function turning any error into display text.

The Cause field is kept for logging only and is never shown to users.
*/
package apperr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/message"

	"github.com/taibuivan/tinytales/internal/platform/i18n"
)

// # Failure Kinds

// Kind classifies a failure by how it must be handled.
type Kind string

const (
	// KindValidation means the input was rejected and field messages are attached.
	KindValidation Kind = "validation"

	// KindAuthorization means the bearer token was rejected (HTTP 401).
	KindAuthorization Kind = "authorization"

	// KindConnectivity means no response was received at all.
	KindConnectivity Kind = "connectivity"

	// KindServer means a response arrived with any other error status.
	KindServer Kind = "server"
)

// AppError is the canonical failure type of the storefront client.
type AppError struct {
	// Kind classifies the failure.
	Kind Kind `json:"kind"`
	// HTTPStatus is the response status code, or 0 when no response was received.
	HTTPStatus int `json:"status_code,omitempty"`
	// Message is the top-level message reported by the server, if any.
	Message string `json:"message,omitempty"`
	// Fields holds per-field validation messages in server order.
	Fields FieldErrors `json:"errors,omitempty"`
	// Cause is the underlying error, used for logging only.
	Cause error `json:"-"`
}

// FieldError holds the ordered validation messages reported for one field.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// FieldErrors is an ordered list of [FieldError].
//
// It decodes from a JSON object of the form {"field": ["message", ...]} and
// keeps the order of the object's members.
type FieldErrors []FieldError

// Error implements the error interface.
func (e *AppError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s failure (status %d): %s", e.Kind, e.HTTPStatus, e.Message)
	case len(e.Fields) > 0:
		return fmt.Sprintf("%s failure (status %d): %s", e.Kind, e.HTTPStatus, e.Fields.Summary())
	case e.Cause != nil:
		return fmt.Sprintf("%s failure (status %d): %v", e.Kind, e.HTTPStatus, e.Cause)
	default:
		return fmt.Sprintf("%s failure (status %d)", e.Kind, e.HTTPStatus)
	}
}

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Constructors

// Validation creates a validation failure with per-field messages.
func Validation(status int, message string, fields FieldErrors) *AppError {
	return &AppError{
		Kind:       KindValidation,
		HTTPStatus: status,
		Message:    message,
		Fields:     fields,
	}
}

// Unauthorized creates a 401 authorization failure.
func Unauthorized(message string) *AppError {
	return &AppError{
		Kind:       KindAuthorization,
		HTTPStatus: http.StatusUnauthorized,
		Message:    message,
	}
}

// Connectivity creates a failure for a request that received no response.
func Connectivity(cause error) *AppError {
	return &AppError{
		Kind:  KindConnectivity,
		Cause: cause,
	}
}

// Server creates a failure for any other error status or an unreadable body.
func Server(status int, message string, cause error) *AppError {
	return &AppError{
		Kind:       KindServer,
		HTTPStatus: status,
		Message:    message,
		Cause:      cause,
	}
}

// # Response Decoding

// errorBody is the failure envelope of the remote auth API.
type errorBody struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

/*
FromResponse builds the [AppError] for a non-2xx response.

Description: The body is decoded best-effort. A 401 is always an authorization
failure; any other status carrying field errors is a validation failure; the
rest are server failures.

Parameters:
  - status: int
  - body: []byte

Returns:
  - *AppError: Normalized failure
*/
func FromResponse(status int, body []byte) *AppError {
	var envelope errorBody
	decodeErr := json.Unmarshal(body, &envelope)

	// A malformed errors member must not hide the message next to it.
	var fields FieldErrors
	if decodeErr == nil && len(envelope.Errors) > 0 {
		if err := json.Unmarshal(envelope.Errors, &fields); err != nil {
			fields = nil
		}
	}

	switch {
	case status == http.StatusUnauthorized:
		failure := Unauthorized(envelope.Message)
		failure.Fields = fields
		return failure
	case len(fields) > 0:
		return Validation(status, envelope.Message, fields)
	case decodeErr != nil:
		return Server(status, "", fmt.Errorf("apperr: undecodable error body: %w", decodeErr))
	default:
		return Server(status, envelope.Message, nil)
	}
}

// UnmarshalJSON decodes a JSON object of field → messages while preserving member order.
//
// A member whose value is a single string is accepted as a one-message list.
// null and empty arrays decode to an empty list.
func (f *FieldErrors) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = nil
		return nil
	}

	// Some backends send an empty array instead of an empty object.
	if trimmed[0] == '[' {
		*f = nil
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("apperr: field errors must be an object")
	}

	var result FieldErrors
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return err
		}
		field, _ := keyToken.(string)

		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return err
		}

		messages, err := decodeMessages(raw)
		if err != nil {
			return fmt.Errorf("apperr: field %q: %w", field, err)
		}
		result = append(result, FieldError{Field: field, Messages: messages})
	}

	*f = result
	return nil
}

// MarshalJSON encodes the list back into a JSON object, keeping order.
func (f FieldErrors) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, entry := range f {
		if i > 0 {
			buffer.WriteByte(',')
		}
		key, err := json.Marshal(entry.Field)
		if err != nil {
			return nil, err
		}
		messages := entry.Messages
		if messages == nil {
			messages = []string{}
		}
		value, err := json.Marshal(messages)
		if err != nil {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')
		buffer.Write(value)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// decodeMessages accepts a list of strings, a single string, or null.
func decodeMessages(raw json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []string{single}, nil
}

// # Field Helpers

// Get returns the messages reported for field, or nil.
func (f FieldErrors) Get(field string) []string {
	for _, entry := range f {
		if entry.Field == field {
			return entry.Messages
		}
	}
	return nil
}

// Summary joins the first message of every field, in order, with ". ".
func (f FieldErrors) Summary() string {
	firsts := make([]string, 0, len(f))
	for _, entry := range f {
		if len(entry.Messages) > 0 && entry.Messages[0] != "" {
			firsts = append(firsts, entry.Messages[0])
		}
	}
	return strings.Join(firsts, ". ")
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsKind reports whether err carries an [*AppError] of the given kind.
func IsKind(err error, kind Kind) bool {
	ae := As(err)
	return ae != nil && ae.Kind == kind
}

/*
Describe converts any failure into the single string shown to the user.

Description: Field errors win (first message of each field, joined with ". "),
then the server message, then the fixed connectivity text for requests that
got no response, then the generic failure text.

Parameters:
  - err: error
  - printer: *message.Printer (localized fixed texts)

Returns:
  - string: Display text, empty when err is nil
*/
func Describe(err error, printer *message.Printer) string {
	if err == nil {
		return ""
	}

	ae := As(err)
	if ae == nil {
		return i18n.Text(printer, i18n.KeyGenericFailure)
	}

	if summary := ae.Fields.Summary(); summary != "" {
		return summary
	}

	if ae.Message != "" {
		return ae.Message
	}

	if ae.Kind == KindConnectivity {
		return i18n.Text(printer, i18n.KeyConnectivityFailure)
	}

	return i18n.Text(printer, i18n.KeyGenericFailure)
}
