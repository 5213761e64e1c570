// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by the auth stub handlers.
//
// # Architecture
//
// Every response, success or failure, uses the envelope of the TinyTales auth
// API so the storefront client decodes stub and production responses alike:
//
//	{"status": bool, "status_code": int, "message": "...", "data": {...}, "errors": {"field": ["..."]}}
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/internal/platform/ctxutil"
)

// Envelope is the JSON body of every auth API response.
type Envelope struct {
	Status     bool               `json:"status"`
	StatusCode int                `json:"status_code"`
	Message    string             `json:"message,omitempty"`
	Data       any                `json:"data,omitempty"`
	Errors     apperr.FieldErrors `json:"errors,omitempty"`
}

// JSON writes payload with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 success envelope.
func OK(writer http.ResponseWriter, message string, data any) {
	Success(writer, http.StatusOK, message, data)
}

// Created writes a 201 success envelope.
func Created(writer http.ResponseWriter, message string, data any) {
	Success(writer, http.StatusCreated, message, data)
}

// Success writes a success envelope with an arbitrary 2xx status.
func Success(writer http.ResponseWriter, statusCode int, message string, data any) {
	JSON(writer, statusCode, Envelope{
		Status:     true,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

// Fail writes a failure envelope carrying only a message.
func Fail(writer http.ResponseWriter, statusCode int, message string) {
	JSON(writer, statusCode, Envelope{StatusCode: statusCode, Message: message})
}

// Error converts any Go error into a failure envelope.
//
// An [*apperr.AppError] keeps its status, message and field errors; a
// validation failure without a status becomes 422. Anything else is logged and
// answered with a generic 500.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Server(http.StatusInternalServerError, "Internal server error", err)
	}

	status := appError.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
		if appError.Kind == apperr.KindValidation {
			status = http.StatusUnprocessableEntity
		}
	}

	if status >= http.StatusInternalServerError {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "api_server_error",
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, status, Envelope{
		StatusCode: status,
		Message:    appError.Message,
		Errors:     appError.Fields,
	})
}
