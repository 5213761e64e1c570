// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package flow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tinytales/internal/api"
	"github.com/taibuivan/tinytales/internal/auth"
	"github.com/taibuivan/tinytales/internal/flow"
	"github.com/taibuivan/tinytales/internal/nav"
	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/internal/platform/config"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/i18n"
	"github.com/taibuivan/tinytales/internal/platform/kv"
	"github.com/taibuivan/tinytales/internal/session"
	"github.com/taibuivan/tinytales/internal/transport"
)

// # Fakes

// fakeAuth answers every call with canned results and records what it saw.
type fakeAuth struct {
	mu sync.Mutex

	result *auth.Result
	err    error

	logoutErr error
	calls     []string
	tokens    []string
}

func (f *fakeAuth) record(call string) (*auth.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.result, f.err
}

func (f *fakeAuth) Register(context.Context, auth.RegisterInput) (*auth.Result, error) {
	return f.record("register")
}

func (f *fakeAuth) Login(context.Context, auth.LoginInput) (*auth.Result, error) {
	return f.record("login")
}

func (f *fakeAuth) Verify(context.Context, string) (*auth.Result, error) {
	return f.record("verify")
}

func (f *fakeAuth) ResendCode(context.Context) (*auth.Result, error) {
	return f.record("resend")
}

func (f *fakeAuth) CurrentUser(context.Context) (*auth.Result, error) {
	return f.record("current_user")
}

func (f *fakeAuth) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "logout")
	f.tokens = append(f.tokens, token)
	return f.logoutErr
}

func (f *fakeAuth) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// manualScheduler holds delayed work until the test fires it.
type manualScheduler struct {
	delays []time.Duration
	jobs   []func()
}

func (s *manualScheduler) After(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.jobs = append(s.jobs, fn)
}

func (s *manualScheduler) Fire() {
	for _, job := range s.jobs {
		job()
	}
	s.jobs = nil
}

// # Harness

type harness struct {
	controllers *flow.Controllers
	store       *session.Store
	history     *nav.History
	scheduler   *manualScheduler
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(fake flow.AuthAPI, start string) *harness {
	h := &harness{
		store:     session.NewStore(kv.NewMemory()),
		history:   nav.NewHistory(start),
		scheduler: &manualScheduler{},
	}
	h.controllers = flow.New(flow.Dependencies{
		Auth:      fake,
		Session:   h.store,
		Navigator: h.history,
		Printer:   i18n.NewPrinter("ar"),
		Logger:    quietLogger(),
		Scheduler: h.scheduler,
	})
	return h
}

func success(token, name string) *auth.Result {
	return &auth.Result{Status: true, StatusCode: 200, Data: &auth.UserData{Token: token, Name: name}}
}

func arabic(key string) string {
	return i18n.Text(i18n.NewPrinter("ar"), key)
}

// # Login

/*
TestLogin_Submit verifies the session writes and the post-login destination.
*/
func TestLogin_Submit(t *testing.T) {
	tests := []struct {
		name     string
		entryURL string
		want     string
	}{
		{"default", "/login", constants.RouteDashboard},
		{"captured_redirect", "/login?redirect=%2Forders%2F42", "/orders/42"},
		{"absolute_redirect", "/login?redirect=https%3A%2F%2Fevil.example", constants.RouteDashboard},
		{"protocol_relative", "/login?redirect=%2F%2Fevil.example", constants.RouteDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(&fakeAuth{result: success("abc", "Ann")}, "/login")

			outcome := h.controllers.Login.Submit(context.Background(),
				flow.LoginForm{Email: "a@b.com", Password: "secret12"}, tt.entryURL)

			require.False(t, outcome.Failed())
			assert.Equal(t, tt.want, outcome.Redirect)
			assert.Equal(t, tt.want, h.history.Current())
			assert.Equal(t, session.Session{Token: "abc", DisplayName: "Ann"}, h.store.Snapshot())
		})
	}
}

/*
TestLogin_Failures covers local validation and API rejections.
*/
func TestLogin_Failures(t *testing.T) {
	t.Run("invalid_email", func(t *testing.T) {
		fake := &fakeAuth{result: success("abc", "Ann")}
		h := newHarness(fake, "/login")

		outcome := h.controllers.Login.Submit(context.Background(), flow.LoginForm{Email: "nope", Password: ""}, "/login")

		require.True(t, outcome.Failed())
		assert.Equal(t, arabic(i18n.KeyEmailInvalid)+". "+arabic(i18n.KeyPasswordRequired), outcome.Notice)
		assert.Equal(t, "email", outcome.Fields[0].Field)
		assert.Empty(t, fake.Calls(), "invalid forms never reach the API")
		assert.False(t, h.store.IsAuthenticated())
	})

	t.Run("server_field_errors", func(t *testing.T) {
		failure := apperr.Validation(422, "", apperr.FieldErrors{
			{Field: "email", Messages: []string{"البريد الإلكتروني غير صحيح"}},
		})
		h := newHarness(&fakeAuth{err: failure}, "/login")

		outcome := h.controllers.Login.Submit(context.Background(), flow.LoginForm{Email: "a@b.com", Password: "x"}, "/login")

		assert.Equal(t, "البريد الإلكتروني غير صحيح", outcome.Notice)
		assert.Equal(t, "/login", h.history.Current())
	})

	t.Run("connectivity", func(t *testing.T) {
		h := newHarness(&fakeAuth{err: apperr.Connectivity(errors.New("dial tcp: refused"))}, "/login")

		outcome := h.controllers.Login.Submit(context.Background(), flow.LoginForm{Email: "a@b.com", Password: "x"}, "/login")

		assert.Equal(t, "خطأ في الاتصال بالخادم. يرجى التحقق من اتصالك بالإنترنت.", outcome.Notice)
	})

	t.Run("success_without_token", func(t *testing.T) {
		h := newHarness(&fakeAuth{result: &auth.Result{Status: true}}, "/login")

		outcome := h.controllers.Login.Submit(context.Background(), flow.LoginForm{Email: "a@b.com", Password: "x"}, "/login")

		assert.Equal(t, flow.Outcome{}, outcome)
		assert.False(t, h.store.IsAuthenticated())
		assert.Equal(t, "/login", h.history.Current())
	})
}

/*
TestLogin_Mount sends signed-in users away from the login page.
*/
func TestLogin_Mount(t *testing.T) {
	h := newHarness(&fakeAuth{}, "/login")

	decision := h.controllers.Login.Mount()
	assert.False(t, decision.Authenticated())
	assert.Equal(t, "/login", h.history.Current())

	h.store.SetToken("abc")
	decision = h.controllers.Login.Mount()
	assert.True(t, decision.Authenticated())
	assert.Equal(t, constants.RouteDashboard, h.history.Current())
}

// # Register

func validRegistration() flow.RegisterForm {
	form := flow.NewRegisterForm()
	form.Name = "Ann"
	form.Email = "ann@example.com"
	form.Mobile = "501234567"
	form.Password = "secret12"
	form.PasswordConfirmation = "secret12"
	return form
}

/*
TestRegister_Submit stores only the provisional token and moves to verify.
*/
func TestRegister_Submit(t *testing.T) {
	h := newHarness(&fakeAuth{result: success("prov1", "Ann")}, "/register")

	outcome := h.controllers.Register.Submit(context.Background(), validRegistration())

	require.False(t, outcome.Failed())
	assert.Equal(t, constants.RouteVerify, h.history.Current())

	token, ok := h.store.Token()
	assert.True(t, ok)
	assert.Equal(t, "prov1", token)

	_, ok = h.store.DisplayName()
	assert.False(t, ok, "registration never caches the name")
}

/*
TestRegister_NoToken reports a failed registration and mutates nothing.
*/
func TestRegister_NoToken(t *testing.T) {
	h := newHarness(&fakeAuth{result: &auth.Result{Status: true, StatusCode: 201}}, "/register")

	outcome := h.controllers.Register.Submit(context.Background(), validRegistration())

	require.True(t, outcome.Failed())
	assert.Equal(t, arabic(i18n.KeyRegisterFailed), outcome.Notice)
	assert.False(t, h.store.IsAuthenticated())
	assert.Equal(t, "/register", h.history.Current())
}

/*
TestRegister_Validation checks each form rule in isolation.
*/
func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*flow.RegisterForm)
		field  string
		key    string
	}{
		{"short_name", func(f *flow.RegisterForm) { f.Name = "A" }, "name", i18n.KeyNameTooShort},
		{"bad_email", func(f *flow.RegisterForm) { f.Email = "ann" }, "email", i18n.KeyEmailInvalid},
		{"short_mobile", func(f *flow.RegisterForm) { f.Mobile = "5012" }, "mobile", i18n.KeyMobileInvalid},
		{"unassigned_mobile", func(f *flow.RegisterForm) { f.Mobile = "000000000" }, "mobile", i18n.KeyMobileInvalid},
		{"short_password", func(f *flow.RegisterForm) { f.Password, f.PasswordConfirmation = "short", "short" }, "password", i18n.KeyPasswordTooShort},
		{"mismatch", func(f *flow.RegisterForm) { f.PasswordConfirmation = "secret13" }, "password_confirmation", i18n.KeyPasswordMismatch},
		{"no_country_code", func(f *flow.RegisterForm) { f.MobileCountryCode = "" }, "mobile_country_code", i18n.KeyCountryCodeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuth{result: success("prov1", "")}
			h := newHarness(fake, "/register")

			form := validRegistration()
			tt.mutate(&form)
			outcome := h.controllers.Register.Submit(context.Background(), form)

			require.True(t, outcome.Failed())
			require.Len(t, outcome.Fields, 1)
			assert.Equal(t, tt.field, outcome.Fields[0].Field)
			assert.Equal(t, arabic(tt.key), outcome.Notice)
			assert.Empty(t, fake.Calls())
		})
	}
}

// # Verify

/*
TestVerify_Submit drops the token and goes to login only after the delay.
*/
func TestVerify_Submit(t *testing.T) {
	h := newHarness(&fakeAuth{result: &auth.Result{Status: true}}, "/verify")
	h.store.SetToken("prov1")

	outcome := h.controllers.Verify.Submit(context.Background(), flow.VerifyForm{Code: "123456"})

	require.False(t, outcome.Failed())
	assert.Equal(t, arabic(i18n.KeyVerifySuccess), outcome.Notice)
	assert.Equal(t, []time.Duration{constants.VerifyRedirectDelay}, h.scheduler.delays)

	// Nothing changes during the grace period.
	assert.True(t, h.store.IsAuthenticated())
	assert.Equal(t, "/verify", h.history.Current())

	h.scheduler.Fire()
	assert.False(t, h.store.IsAuthenticated())
	assert.Equal(t, constants.RouteLogin, h.history.Current())
}

/*
TestVerify_Failures covers code length and API rejections.
*/
func TestVerify_Failures(t *testing.T) {
	t.Run("wrong_length", func(t *testing.T) {
		fake := &fakeAuth{result: &auth.Result{Status: true}}
		h := newHarness(fake, "/verify")

		outcome := h.controllers.Verify.Submit(context.Background(), flow.VerifyForm{Code: "12345"})

		assert.Equal(t, arabic(i18n.KeyCodeLength), outcome.Notice)
		assert.Empty(t, fake.Calls())
		assert.Empty(t, h.scheduler.jobs)
	})

	t.Run("rejected", func(t *testing.T) {
		failure := apperr.Validation(422, "", apperr.FieldErrors{{Field: "code", Messages: []string{"bad code"}}})
		h := newHarness(&fakeAuth{err: failure}, "/verify")
		h.store.SetToken("prov1")

		outcome := h.controllers.Verify.Submit(context.Background(), flow.VerifyForm{Code: "999999"})

		assert.Equal(t, "bad code", outcome.Notice)
		assert.Empty(t, h.scheduler.jobs)
		assert.True(t, h.store.IsAuthenticated())
	})
}

/*
TestVerify_MountAndResend checks the pending guard and the resend notice.
*/
func TestVerify_MountAndResend(t *testing.T) {
	h := newHarness(&fakeAuth{result: &auth.Result{Status: true, Message: "sent"}}, "/verify")

	decision := h.controllers.Verify.Mount()
	assert.False(t, decision.Authenticated())
	assert.Equal(t, constants.RouteRegister, h.history.Current())

	outcome := h.controllers.Verify.Resend(context.Background())
	assert.Equal(t, arabic(i18n.KeyResendSuccess), outcome.Notice)
}

// # Dashboard

/*
TestDashboard_Mount covers the guard, the cached name and the backfill.
*/
func TestDashboard_Mount(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		fake := &fakeAuth{}
		h := newHarness(fake, "/dashboard")

		view := h.controllers.Dashboard.Mount(context.Background(), "/dashboard")

		assert.False(t, view.Decision.Authenticated())
		assert.Equal(t, "/login?redirect=%2Fdashboard", h.history.Current())
		assert.Empty(t, fake.Calls())
	})

	t.Run("cached_name", func(t *testing.T) {
		fake := &fakeAuth{}
		h := newHarness(fake, "/dashboard")
		h.store.SetToken("abc")
		h.store.SetDisplayName("ann")

		view := h.controllers.Dashboard.Mount(context.Background(), "/dashboard")

		assert.True(t, view.Decision.Authenticated())
		assert.Equal(t, "ann", view.Label())
		assert.Equal(t, "A", view.Initial())
		assert.Empty(t, fake.Calls())
	})

	t.Run("backfill", func(t *testing.T) {
		h := newHarness(&fakeAuth{result: success("", "Ann")}, "/dashboard")
		h.store.SetToken("abc")

		view := h.controllers.Dashboard.Mount(context.Background(), "/dashboard")

		assert.Equal(t, "Ann", view.DisplayName)
		name, ok := h.store.DisplayName()
		assert.True(t, ok)
		assert.Equal(t, "Ann", name)
	})

	t.Run("backfill_failure", func(t *testing.T) {
		h := newHarness(&fakeAuth{err: apperr.Server(500, "", nil)}, "/dashboard")
		h.store.SetToken("abc")

		view := h.controllers.Dashboard.Mount(context.Background(), "/dashboard")

		assert.True(t, view.Decision.Authenticated())
		assert.Equal(t, arabic(i18n.KeyGenericFailure), view.Outcome.Notice)
		assert.Equal(t, "User", view.Label())
		assert.Equal(t, "U", view.Initial())
		assert.Equal(t, "/dashboard", h.history.Current())
	})
}

// # Logout

/*
TestLogout_Submit clears locally before the remote call and ignores its failure.
*/
func TestLogout_Submit(t *testing.T) {
	fake := &fakeAuth{logoutErr: apperr.Connectivity(errors.New("offline"))}
	h := newHarness(fake, "/dashboard")
	h.store.SetToken("abc")
	h.store.SetDisplayName("Ann")

	outcome := h.controllers.Logout.Submit(context.Background())

	assert.False(t, outcome.Failed())
	assert.Equal(t, arabic(i18n.KeyLogoutCompleted), outcome.Notice)
	assert.Equal(t, constants.RouteLogin, h.history.Current())
	assert.Equal(t, session.Session{}, h.store.Snapshot())
	assert.Equal(t, []string{"abc"}, fake.tokens, "the captured token is sent")
}

/*
TestLogout_WithoutSession skips the remote call.
*/
func TestLogout_WithoutSession(t *testing.T) {
	fake := &fakeAuth{}
	h := newHarness(fake, "/dashboard")

	h.controllers.Logout.Submit(context.Background())

	assert.Empty(t, fake.Calls())
	assert.Equal(t, constants.RouteLogin, h.history.Current())
}

// # End to end

/*
TestFlow_AgainstStub drives every page against the in-process auth API.
*/
func TestFlow_AgainstStub(t *testing.T) {
	cfg := &config.StubConfig{
		Port:             "0",
		Environment:      "test",
		SigningKey:       "test-signing-key",
		VerificationCode: "123456",
		TokenTTL:         time.Hour,
	}
	stub, err := api.Assemble(t.Context(), cfg, quietLogger())
	require.NoError(t, err)
	server := httptest.NewServer(stub.Handler())
	defer server.Close()

	store := session.NewStore(kv.NewMemory())
	history := nav.NewHistory(constants.RouteRegister)
	client := transport.New(server.URL+"/api",
		transport.WithLogger(quietLogger()),
		transport.WithSession(store, func() { history.Navigate(constants.RouteLogin) }),
	)

	scheduler := &manualScheduler{}
	controllers := flow.New(flow.Dependencies{
		Auth:      auth.NewService(client),
		Session:   store,
		Navigator: history,
		Printer:   i18n.NewPrinter("en"),
		Logger:    quietLogger(),
		Scheduler: scheduler,
	})
	ctx := context.Background()

	// ── 1. Register ───────────────────────────────────────────────────────
	outcome := controllers.Register.Submit(ctx, validRegistration())
	require.False(t, outcome.Failed(), outcome.Notice)
	assert.Equal(t, constants.RouteVerify, history.Current())

	// ── 2. Verify ─────────────────────────────────────────────────────────
	assert.True(t, controllers.Verify.Mount().Authenticated())
	outcome = controllers.Verify.Submit(ctx, flow.VerifyForm{Code: "123456"})
	require.False(t, outcome.Failed(), outcome.Notice)
	scheduler.Fire()
	assert.Equal(t, constants.RouteLogin, history.Current())
	assert.False(t, store.IsAuthenticated())

	// ── 3. Login with a captured redirect ─────────────────────────────────
	outcome = controllers.Login.Submit(ctx, flow.LoginForm{Email: "ann@example.com", Password: "secret12"}, "/login?redirect=%2Fdashboard")
	require.False(t, outcome.Failed(), outcome.Notice)
	assert.Equal(t, constants.RouteDashboard, history.Current())

	// ── 4. Dashboard backfills a dropped name ─────────────────────────────
	store.SetDisplayName("")
	view := controllers.Dashboard.Mount(ctx, constants.RouteDashboard)
	require.True(t, view.Decision.Authenticated())
	assert.Equal(t, "Ann", view.Label())
	name, ok := store.DisplayName()
	assert.True(t, ok)
	assert.Equal(t, "Ann", name)

	// ── 5. Logout revokes the token remotely ──────────────────────────────
	captured, _ := store.Token()
	controllers.Logout.Submit(ctx)
	assert.Equal(t, constants.RouteLogin, history.Current())
	assert.False(t, store.IsAuthenticated())

	store.SetToken(captured)
	history.Navigate(constants.RouteDashboard)
	store.SetDisplayName("")
	view = controllers.Dashboard.Mount(ctx, constants.RouteDashboard)
	assert.True(t, apperr.IsKind(view.Outcome.Err, apperr.KindAuthorization))
	assert.False(t, store.IsAuthenticated(), "a revoked token clears the session")
	assert.Equal(t, constants.RouteLogin, history.Current())
}
