// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transport

import (
	"context"
	"net/http"

	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/pkg/uuidv7"
)

// RequestInterceptor mutates an outgoing request before its body is encoded.
type RequestInterceptor func(ctx context.Context, req *Request)

// ResponseInterceptor observes every finished call.
//
// resp is nil when no response was received. err is the normalized failure,
// or nil for a 2xx response. The returned pair replaces the original one.
type ResponseInterceptor func(ctx context.Context, resp *Response, err error) (*Response, error)

// TokenSource supplies the current bearer token.
type TokenSource interface {
	Token() (string, bool)
}

// Clearer removes the persisted session.
type Clearer interface {
	Clear()
}

// BearerToken attaches "Authorization: Bearer <token>" when the source holds a token.
//
// A request that already carries an Authorization header is left untouched.
func BearerToken(source TokenSource) RequestInterceptor {
	return func(_ context.Context, req *Request) {
		if req.Header.Get(constants.HeaderAuthorization) != "" {
			return
		}
		if token, ok := source.Token(); ok {
			req.Header.Set(constants.HeaderAuthorization, constants.AuthSchemeBearer+" "+token)
		}
	}
}

// MultipartContentType drops any explicit Content-Type from form requests.
//
// The encoder then sets multipart/form-data with the generated boundary; a
// caller-supplied type would lack it and the server could not parse the body.
func MultipartContentType() RequestInterceptor {
	return func(_ context.Context, req *Request) {
		if req.Form != nil {
			req.Header.Del(constants.HeaderContentType)
		}
	}
}

// RequestID attaches a fresh X-Request-ID unless the caller set one.
func RequestID() RequestInterceptor {
	return func(_ context.Context, req *Request) {
		if req.Header.Get(constants.HeaderXRequestID) == "" {
			req.Header.Set(constants.HeaderXRequestID, uuidv7.New())
		}
	}
}

// InvalidateOnUnauthorized clears the session on every 401 response and then
// calls onInvalidated once for that response.
//
// Clearing happens before the caller sees the failure. Concurrent 401s each
// clear and notify; both steps are idempotent for the session and navigator.
func InvalidateOnUnauthorized(store Clearer, onInvalidated func()) ResponseInterceptor {
	return func(_ context.Context, resp *Response, err error) (*Response, error) {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			store.Clear()
			if onInvalidated != nil {
				onInvalidated()
			}
		}
		return resp, err
	}
}
