// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transport_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/internal/platform/kv"
	"github.com/taibuivan/tinytales/internal/platform/metrics"
	"github.com/taibuivan/tinytales/internal/session"
	"github.com/taibuivan/tinytales/internal/transport"
)

// captured is what the test server saw for one request.
type captured struct {
	header http.Header
	form   map[string][]string
	err    error
}

// newServer answers every request with status and body, recording what it received.
func newServer(t *testing.T, status int, body string) (*httptest.Server, chan captured) {
	t.Helper()
	seen := make(chan captured, 16)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		record := captured{header: r.Header.Clone()}
		if r.Method == http.MethodPost {
			record.err = r.ParseMultipartForm(1 << 20)
			if record.err == nil {
				record.form = r.MultipartForm.Value
			}
		}
		seen <- record

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	return server, seen
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestClient_BearerToken verifies the Authorization header follows the session.
*/
func TestClient_BearerToken(t *testing.T) {
	server, seen := newServer(t, http.StatusOK, `{"status":true}`)
	store := session.NewStore(kv.NewMemory())
	client := transport.New(server.URL, transport.WithLogger(quietLogger()), transport.WithSession(store, nil))

	t.Run("absent_without_token", func(t *testing.T) {
		_, err := client.Do(context.Background(), transport.NewRequest(http.MethodGet, "/auth/user-data", nil))
		require.NoError(t, err)
		assert.Empty(t, (<-seen).header.Get("Authorization"))
	})

	t.Run("present_with_token", func(t *testing.T) {
		store.SetToken("abc")
		_, err := client.Do(context.Background(), transport.NewRequest(http.MethodGet, "/auth/user-data", nil))
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc", (<-seen).header.Get("Authorization"))
	})

	t.Run("explicit_header_wins", func(t *testing.T) {
		store.Clear()
		req := transport.NewRequest(http.MethodPost, "/auth/logout", transport.NewForm())
		req.Header.Set("Authorization", "Bearer captured")
		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Bearer captured", (<-seen).header.Get("Authorization"))
	})
}

/*
TestClient_DefaultHeaders checks Accept and X-Request-ID on every call.
*/
func TestClient_DefaultHeaders(t *testing.T) {
	server, seen := newServer(t, http.StatusOK, `{"status":true}`)
	client := transport.New(server.URL+"/", transport.WithLogger(quietLogger()))

	_, err := client.Do(context.Background(), transport.NewRequest(http.MethodGet, "/auth/user-data", nil))
	require.NoError(t, err)

	record := <-seen
	assert.Equal(t, "application/json", record.header.Get("Accept"))
	assert.Len(t, record.header.Get("X-Request-ID"), 36)

	req := transport.NewRequest(http.MethodGet, "/auth/user-data", nil)
	req.Header.Set("X-Request-ID", "fixed")
	_, err = client.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "fixed", (<-seen).header.Get("X-Request-ID"))
}

/*
TestClient_MultipartContentType ensures a caller-supplied type never reaches the server.
*/
func TestClient_MultipartContentType(t *testing.T) {
	server, seen := newServer(t, http.StatusOK, `{"status":true}`)
	client := transport.New(server.URL, transport.WithLogger(quietLogger()))

	form := transport.NewForm().Add("email", "a@b.com").Add("password", "secret12")
	req := transport.NewRequest(http.MethodPost, "/auth/login", form)
	req.Header.Set("Content-Type", "multipart/form-data")

	_, err := client.Do(context.Background(), req)
	require.NoError(t, err)

	record := <-seen
	require.NoError(t, record.err)
	assert.Contains(t, record.header.Get("Content-Type"), "boundary=")
	assert.Equal(t, []string{"a@b.com"}, record.form["email"])
	assert.Equal(t, []string{"secret12"}, record.form["password"])
}

/*
TestClient_EmptyFormIsMultipart verifies that a bodiless action still posts a form.
*/
func TestClient_EmptyFormIsMultipart(t *testing.T) {
	server, seen := newServer(t, http.StatusOK, `{"status":true}`)
	client := transport.New(server.URL, transport.WithLogger(quietLogger()))

	_, err := client.Do(context.Background(), transport.NewRequest(http.MethodPost, "/auth/verify-email/resend-code", transport.NewForm()))
	require.NoError(t, err)

	record := <-seen
	require.NoError(t, record.err)
	assert.Empty(t, record.form)
}

/*
TestClient_Unauthorized verifies the 401 interceptor clears the session and notifies once.
*/
func TestClient_Unauthorized(t *testing.T) {
	server, _ := newServer(t, http.StatusUnauthorized, `{"status":false,"message":"Unauthenticated."}`)
	store := session.NewStore(kv.NewMemory())
	store.SetToken("stale")
	store.SetDisplayName("Ann")

	var calls atomic.Int32
	client := transport.New(server.URL,
		transport.WithLogger(quietLogger()),
		transport.WithSession(store, func() { calls.Add(1) }),
	)

	resp, err := client.Do(context.Background(), transport.NewRequest(http.MethodGet, "/auth/user-data", nil))
	require.Error(t, err)
	require.NotNil(t, resp)

	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	assert.Equal(t, "Unauthenticated.", apperr.As(err).Message)
	assert.False(t, store.IsAuthenticated())
	_, hasName := store.DisplayName()
	assert.False(t, hasName)
	assert.EqualValues(t, 1, calls.Load())
}

/*
TestClient_UnauthorizedConcurrent checks one notification per failing response.
*/
func TestClient_UnauthorizedConcurrent(t *testing.T) {
	server, _ := newServer(t, http.StatusUnauthorized, `{"status":false}`)
	store := session.NewStore(kv.NewMemory())
	store.SetToken("stale")

	var calls atomic.Int32
	client := transport.New(server.URL,
		transport.WithLogger(quietLogger()),
		transport.WithSession(store, func() { calls.Add(1) }),
	)

	const parallel = 5
	var wg sync.WaitGroup
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = client.Do(context.Background(), transport.NewRequest(http.MethodGet, "/auth/user-data", nil))
		}()
	}
	wg.Wait()

	assert.False(t, store.IsAuthenticated())
	assert.EqualValues(t, parallel, calls.Load())
}

/*
TestClient_FailureKinds verifies normalization of non-2xx and missing responses.
*/
func TestClient_FailureKinds(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		server, _ := newServer(t, http.StatusUnprocessableEntity, `{"status":false,"errors":{"email":["taken"]}}`)
		client := transport.New(server.URL, transport.WithLogger(quietLogger()))

		_, err := client.Do(context.Background(), transport.NewRequest(http.MethodPost, "/auth/register", transport.NewForm()))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Equal(t, []string{"taken"}, apperr.As(err).Fields.Get("email"))
	})

	t.Run("server", func(t *testing.T) {
		server, _ := newServer(t, http.StatusInternalServerError, `oops`)
		client := transport.New(server.URL, transport.WithLogger(quietLogger()))

		_, err := client.Do(context.Background(), transport.NewRequest(http.MethodGet, "/auth/user-data", nil))
		assert.True(t, apperr.IsKind(err, apperr.KindServer))
	})

	t.Run("connectivity", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client := transport.New(url, transport.WithLogger(quietLogger()))
		resp, err := client.Do(context.Background(), transport.NewRequest(http.MethodGet, "/auth/user-data", nil))
		assert.Nil(t, resp)
		assert.True(t, apperr.IsKind(err, apperr.KindConnectivity))
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer server.Close()

		client := transport.New(server.URL, transport.WithLogger(quietLogger()), transport.WithTimeout(20*time.Millisecond))
		_, err := client.Do(context.Background(), transport.NewRequest(http.MethodGet, "/auth/user-data", nil))
		assert.True(t, apperr.IsKind(err, apperr.KindConnectivity))
	})
}

/*
TestClient_InterceptorOrder verifies registration order and response replacement.
*/
func TestClient_InterceptorOrder(t *testing.T) {
	server, seen := newServer(t, http.StatusOK, `{"status":true}`)

	var order []string
	client := transport.New(server.URL,
		transport.WithLogger(quietLogger()),
		transport.WithRequestInterceptor(func(_ context.Context, req *transport.Request) {
			order = append(order, "first")
			req.Header.Set("X-Trace", "1")
		}),
		transport.WithRequestInterceptor(func(_ context.Context, req *transport.Request) {
			order = append(order, "second:"+req.Header.Get("X-Trace"))
		}),
		transport.WithResponseInterceptor(func(_ context.Context, resp *transport.Response, err error) (*transport.Response, error) {
			order = append(order, "response")
			return resp, err
		}),
	)

	original := transport.NewRequest(http.MethodGet, "/auth/user-data", nil)
	resp, err := client.Do(context.Background(), original)
	require.NoError(t, err)

	var body struct {
		Status bool `json:"status"`
	}
	require.NoError(t, resp.Decode(&body))
	assert.True(t, body.Status)

	assert.Equal(t, []string{"first", "second:1", "response"}, order)
	assert.Equal(t, "1", (<-seen).header.Get("X-Trace"))
	assert.Empty(t, original.Header.Get("X-Trace"), "caller request must not be mutated")
}

/*
TestClient_Metrics checks that calls are counted.
*/
func TestClient_Metrics(t *testing.T) {
	server, _ := newServer(t, http.StatusOK, `{"status":true}`)
	reg := prometheus.NewRegistry()
	client := transport.New(server.URL,
		transport.WithLogger(quietLogger()),
		transport.WithMetrics(metrics.NewHTTP(reg, metrics.NamespaceClient)),
	)

	for i := 0; i < 3; i++ {
		_, err := client.Do(context.Background(), transport.NewRequest(http.MethodGet, "/auth/user-data", nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "tinytales_client_http_requests_total"))
}
