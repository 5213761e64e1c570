// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/internal/platform/respond"
)

/*
TestError_Envelopes verifies the failure envelope per error kind.
*/
func TestError_Envelopes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			"validation_defaults_to_422",
			apperr.Validation(0, "", apperr.FieldErrors{{Field: "email", Messages: []string{"taken"}}}),
			http.StatusUnprocessableEntity,
			`{"status":false,"status_code":422,"errors":{"email":["taken"]}}`,
		},
		{
			"unauthorized",
			apperr.Unauthorized("Unauthenticated."),
			http.StatusUnauthorized,
			`{"status":false,"status_code":401,"message":"Unauthenticated."}`,
		},
		{
			"server_status_kept",
			apperr.Server(http.StatusTooManyRequests, "slow down", nil),
			http.StatusTooManyRequests,
			`{"status":false,"status_code":429,"message":"slow down"}`,
		},
		{
			"foreign_error",
			errors.New("boom"),
			http.StatusInternalServerError,
			`{"status":false,"status_code":500,"message":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)

			respond.Error(recorder, request, tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			assert.JSONEq(t, tt.body, recorder.Body.String())
		})
	}
}

/*
TestSuccess_Envelope verifies the success shape with and without data.
*/
func TestSuccess_Envelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Created(recorder, "created", map[string]string{"token": "abc"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"status":true,"status_code":201,"message":"created","data":{"token":"abc"}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	respond.OK(recorder, "done", nil)
	assert.JSONEq(t, `{"status":true,"status_code":200,"message":"done"}`, recorder.Body.String())
}
