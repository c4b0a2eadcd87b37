package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/auth"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{host: "", want: ""},
		{host: "github.com", want: ""},
		{host: "api.github.com", want: ""},
		{host: "github.example.com", want: "https://github.example.com/api/v3/"},
		{host: "http://ghe.local:8080", want: "http://ghe.local:8080/api/v3/"},
		{host: "https://ghe.local/ignored/path", want: "https://ghe.local/api/v3/"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			got, err := BaseURL(tt.host)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}

	for _, host := range []string{"ftp://ghe.local", "https://", "http://[::1"} {
		_, err := BaseURL(host)
		require.Error(t, err, host)
		assert.True(t, errors.Is(err, lib.ErrConfiguration), host)
	}
}

func TestHTTPClientAuthentication(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
	}))
	defer srv.Close()

	get := func(t *testing.T, creds auth.Credentials) *http.Request {
		t.Helper()
		client, err := HTTPClient(context.Background(), ClientConfig{Credentials: creds})
		require.NoError(t, err)
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
		return got
	}

	t.Run("basic", func(t *testing.T) {
		r := get(t, auth.Credentials{Method: auth.MethodBasic, Username: "octocat", Password: "hunter2"})
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "octocat", user)
		assert.Equal(t, "hunter2", pass)
	})

	t.Run("token", func(t *testing.T) {
		r := get(t, auth.Credentials{Method: auth.MethodToken, Token: "ghp_abc"})
		assert.Equal(t, "Bearer ghp_abc", r.Header.Get("Authorization"))
	})

	t.Run("none", func(t *testing.T) {
		r := get(t, auth.Credentials{})
		assert.Empty(t, r.Header.Get("Authorization"))
	})
}

func TestNewClientEnterpriseThroughProxy(t *testing.T) {
	// The proxy sees the absolute request for the enterprise host and
	// answers in its place.
	var host, path string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, path = r.Host, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"octocat","name":"The Octocat","email":"octocat@example.com"}`))
	}))
	defer proxy.Close()

	proxyURL, err := url.Parse(proxy.URL)
	require.NoError(t, err)

	svc, err := NewClient(context.Background(), ClientConfig{
		Host:        "http://ghe.invalid",
		Credentials: auth.Credentials{Method: auth.MethodToken, Token: "ghp_abc"},
		Proxy:       &auth.Proxy{ID: "corp", Active: true, Protocol: "http", Host: proxyURL.Hostname(), Port: mustPort(t, proxyURL.Port())},
	})
	require.NoError(t, err)

	user, err := svc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, "ghe.invalid", host)
	assert.Equal(t, "/api/v3/user", path)
}

func TestNewClientRejectsBadHost(t *testing.T) {
	_, err := NewClient(context.Background(), ClientConfig{Host: "ftp://ghe.local"})
	assert.True(t, errors.Is(err, lib.ErrConfiguration))
}

func mustPort(t *testing.T, port string) int {
	t.Helper()
	n, err := strconv.Atoi(port)
	require.NoError(t, err)
	return n
}
