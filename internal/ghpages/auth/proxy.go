package auth

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultHost is the host proxies are matched against when none is configured.
const DefaultHost = "github.com"

var nonProxySeparators = regexp.MustCompile(`[,;|]`)

func isHTTPProxy(p Proxy) bool {
	return strings.EqualFold(p.Protocol, "http") || strings.EqualFold(p.Protocol, "https")
}

// SelectProxy returns the proxy to reach host through, or nil. An active
// http(s) proxy whose id matches serverID (case-insensitively) wins over the
// first active http(s) proxy. Either way the proxy is dropped when host is
// listed in its non-proxy hosts.
func SelectProxy(settings *Settings, serverID, host string) *Proxy {
	if settings == nil || len(settings.Proxies) == 0 {
		return nil
	}

	if serverID != "" {
		for i := range settings.Proxies {
			p := &settings.Proxies[i]
			if p.Active && p.ID != "" && strings.EqualFold(p.ID, serverID) && isHTTPProxy(*p) {
				if MatchNonProxy(*p, host) {
					return nil
				}
				return p
			}
		}
	}

	for i := range settings.Proxies {
		p := &settings.Proxies[i]
		if p.Active && isHTTPProxy(*p) {
			if MatchNonProxy(*p, host) {
				return nil
			}
			return p
		}
	}
	return nil
}

// MatchNonProxy reports whether host is excluded from proxying by the
// proxy's non-proxy list. Patterns are separated by ',', ';' or '|' and may
// hold a single '*' at the start, the end, or in the middle.
func MatchNonProxy(proxy Proxy, host string) bool {
	if host == "" {
		host = DefaultHost
	}
	if proxy.NonProxyHosts == "" {
		return false
	}

	// Patterns are compared verbatim, surrounding spaces included.
	for _, pattern := range nonProxySeparators.Split(proxy.NonProxyHosts, -1) {
		if matchHostPattern(host, pattern) {
			return true
		}
	}
	return false
}

func matchHostPattern(host, pattern string) bool {
	pos := strings.Index(pattern, "*")
	if pos == -1 {
		return host == pattern
	}

	prefix, suffix := pattern[:pos], pattern[pos+1:]
	switch {
	case prefix != "" && suffix == "":
		return strings.HasPrefix(host, prefix)
	case prefix == "" && suffix != "":
		return strings.HasSuffix(host, suffix)
	case prefix != "" && suffix != "":
		return strings.HasPrefix(host, prefix) && strings.HasSuffix(host, suffix)
	default:
		return false
	}
}

// URL returns the proxy as a URL usable by http.ProxyURL.
func (p Proxy) URL() (*url.URL, error) {
	if p.Host == "" {
		return nil, fmt.Errorf("proxy '%s' has no host", p.ID)
	}
	scheme := strings.ToLower(p.Protocol)
	if scheme == "" {
		scheme = "http"
	}
	host := p.Host
	if p.Port > 0 {
		host = net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	}
	u := &url.URL{Scheme: scheme, Host: host}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u, nil
}
