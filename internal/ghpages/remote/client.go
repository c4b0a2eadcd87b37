package remote

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/auth"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/lib"
	"github.com/google/go-github/v48/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	hostDefault = "github.com"
	hostAPI     = "api.github.com"

	defaultTimeout = 60 * time.Second
)

// ClientConfig is everything needed to build an authenticated service.
type ClientConfig struct {
	// Host is empty for the public host, a bare hostname for an enterprise
	// install, or a scheme://host[:port] URL.
	Host        string
	Credentials auth.Credentials
	Proxy       *auth.Proxy
	Logger      *zap.SugaredLogger
}

// Factory builds the DataService for a run. Tests substitute their own.
type Factory func(ctx context.Context, cfg ClientConfig) (DataService, error)

// BaseURL returns the API root for host, or nil for the public host.
func BaseURL(host string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" || host == hostDefault || host == hostAPI {
		return nil, nil
	}
	if !strings.Contains(host, "://") {
		return &url.URL{Scheme: "https", Host: host, Path: "/api/v3/"}, nil
	}

	u, err := url.Parse(host)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, lib.ConfigError("could not parse host URL %s", host)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/api/v3/"}, nil
}

func baseTransport(cfg ClientConfig) (http.RoundTripper, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy == nil {
		return transport, nil
	}
	proxyURL, err := cfg.Proxy.URL()
	if err != nil {
		return nil, lib.ConfigError("invalid proxy: %v", err)
	}
	if cfg.Logger != nil {
		cfg.Logger.Debugf("Found Proxy %s:%d", cfg.Proxy.Host, cfg.Proxy.Port)
	}
	transport.Proxy = http.ProxyURL(proxyURL)
	return transport, nil
}

// HTTPClient returns an http.Client that authenticates every request with
// creds and routes through the configured proxy.
func HTTPClient(ctx context.Context, cfg ClientConfig) (*http.Client, error) {
	transport, err := baseTransport(cfg)
	if err != nil {
		return nil, err
	}
	base := &http.Client{Transport: transport, Timeout: defaultTimeout}

	switch cfg.Credentials.Method {
	case auth.MethodBasic:
		basic := &github.BasicAuthTransport{
			Username:  cfg.Credentials.Username,
			Password:  cfg.Credentials.Password,
			Transport: transport,
		}
		return &http.Client{Transport: basic, Timeout: defaultTimeout}, nil
	case auth.MethodToken:
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Credentials.Token})
		client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), ts)
		client.Timeout = defaultTimeout
		return client, nil
	default:
		return base, nil
	}
}

// NewClient is the default Factory: a go-github backed service for the
// configured host.
func NewClient(ctx context.Context, cfg ClientConfig) (DataService, error) {
	baseURL, err := BaseURL(cfg.Host)
	if err != nil {
		return nil, err
	}
	httpClient, err := HTTPClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if baseURL == nil {
		return NewGitHubService(github.NewClient(httpClient)), nil
	}
	if cfg.Logger != nil {
		cfg.Logger.Debugf("Using custom host: %s", cfg.Host)
	}
	client, err := github.NewEnterpriseClient(baseURL.String(), baseURL.String(), httpClient)
	if err != nil {
		return nil, lib.ConfigError("could not parse host URL %s", cfg.Host)
	}
	return NewGitHubService(client), nil
}
