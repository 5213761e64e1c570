// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nav_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tinytales/internal/nav"
)

/*
TestHistory_Idempotent verifies that navigating to the current route is ignored.
*/
func TestHistory_Idempotent(t *testing.T) {
	history := nav.NewHistory("/dashboard")

	history.Navigate("/login")
	history.Navigate("/login")
	history.Navigate("/dashboard")

	assert.Equal(t, "/dashboard", history.Current())
	assert.Equal(t, []string{"/dashboard", "/login", "/dashboard"}, history.Visits())
}

/*
TestHistory_Concurrent checks that parallel identical navigations land once.
*/
func TestHistory_Concurrent(t *testing.T) {
	history := nav.NewHistory("/dashboard")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			history.Navigate("/login")
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"/dashboard", "/login"}, history.Visits())
}

/*
TestLoginWithRedirect covers redirect capture.
*/
func TestLoginWithRedirect(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/dashboard", "/login?redirect=%2Fdashboard"},
		{"/dashboard?tab=orders", "/login?redirect=%2Fdashboard%3Ftab%3Dorders"},
		{"", "/login"},
		{"/login", "/login"},
		{"/login?redirect=%2Fx", "/login"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, nav.LoginWithRedirect(tt.path), tt.path)
	}
}

/*
TestRedirectTarget verifies sanitizing of the redirect parameter.
*/
func TestRedirectTarget(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  string
	}{
		{"relative", "/login?redirect=%2Fdashboard", "/dashboard"},
		{"relative_with_query", "/login?redirect=%2Fdashboard%3Ftab%3Dorders", "/dashboard?tab=orders"},
		{"missing", "/login", "/dashboard"},
		{"absolute_url", "/login?redirect=https%3A%2F%2Fevil.example", "/dashboard"},
		{"protocol_relative", "/login?redirect=%2F%2Fevil.example", "/dashboard"},
		{"backslash_trick", "/login?redirect=%2F%5Cevil.example", "/dashboard"},
		{"not_a_path", "/login?redirect=dashboard", "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nav.RedirectTarget(tt.entry))
		})
	}
}

/*
TestNavigatorFunc verifies the adapter.
*/
func TestNavigatorFunc(t *testing.T) {
	var got string
	var navigator nav.Navigator = nav.NavigatorFunc(func(target string) { got = target })

	navigator.Navigate("/verify")
	assert.Equal(t, "/verify", got)
}
