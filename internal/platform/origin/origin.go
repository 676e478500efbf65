// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package origin decides which third-party origins pages may load scripts and media from.
package origin

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

var (
	// ErrNotAllowed indicates the URL's origin is not on the allowlist.
	ErrNotAllowed = errors.New("origin not allowed")
	// ErrInvalidURL indicates the URL is not a plain absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url")
)

// Policy is an origin allowlist. Hosts may use a leading "*." to allow every
// subdomain of a domain (not the domain itself).
type Policy struct {
	Schemes []string `yaml:"schemes" json:"schemes"`
	Hosts   []string `yaml:"hosts" json:"hosts"`
}

// DefaultPolicy allows https only, from the hosts given.
func DefaultPolicy(hosts ...string) Policy {
	return Policy{Schemes: []string{"https"}, Hosts: hosts}
}

// NormalizeHost validates and lowercases a bare host, converting IDNs to ASCII.
func NormalizeHost(raw string) (string, error) {
	host := strings.TrimSpace(raw)
	switch {
	case host == "":
		return "", fmt.Errorf("host is empty")
	case strings.Contains(host, "://"):
		return "", fmt.Errorf("host must not include scheme: %s", raw)
	case strings.ContainsAny(host, "/@%"):
		return "", fmt.Errorf("host must be a bare name or IP: %s", raw)
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	if strings.Contains(host, ":") && net.ParseIP(host) == nil {
		return "", fmt.Errorf("host must not include port: %s", raw)
	}
	host = strings.TrimSuffix(host, ".")
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("invalid host %q: %w", raw, err)
	}
	return strings.ToLower(ascii), nil
}

// Validate reports allowlist entries that can never match.
func (p Policy) Validate() error {
	if len(p.Schemes) == 0 {
		return fmt.Errorf("origin policy: no schemes")
	}
	for _, s := range p.Schemes {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "http" && s != "https" {
			return fmt.Errorf("origin policy: unsupported scheme %q", s)
		}
	}
	for _, h := range p.Hosts {
		if _, err := NormalizeHost(strings.TrimPrefix(h, "*.")); err != nil {
			return fmt.Errorf("origin policy: %w", err)
		}
	}
	return nil
}

// Check parses raw and verifies its scheme and host against p.
func (p Policy) Check(raw string) (*url.URL, error) {
	u, err := parseDirect(raw)
	if err != nil {
		return nil, err
	}
	if !p.schemeAllowed(u.Scheme) {
		return nil, fmt.Errorf("%w: scheme %q", ErrNotAllowed, u.Scheme)
	}
	host, err := NormalizeHost(u.Hostname())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !p.hostAllowed(host) {
		return nil, fmt.Errorf("%w: host %q", ErrNotAllowed, host)
	}
	if ip := net.ParseIP(host); ip != nil && isBlockedIP(ip) && !p.listed(host) {
		return nil, fmt.Errorf("%w: blocked ip %s", ErrNotAllowed, host)
	}
	return u, nil
}

// Origins returns scheme://host for every allowed host, sorted, in the form used by
// Content-Security-Policy source lists.
func (p Policy) Origins() []string {
	var out []string
	for _, s := range p.Schemes {
		s = strings.ToLower(strings.TrimSpace(s))
		for _, h := range p.Hosts {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			out = append(out, s+"://"+strings.ToLower(h))
		}
	}
	sort.Strings(out)
	return out
}

func (p Policy) schemeAllowed(scheme string) bool {
	for _, s := range p.Schemes {
		if strings.EqualFold(strings.TrimSpace(s), scheme) {
			return true
		}
	}
	return false
}

func (p Policy) hostAllowed(host string) bool {
	for _, h := range p.Hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if suffix, ok := strings.CutPrefix(h, "*."); ok {
			if strings.HasSuffix(host, "."+suffix) {
				return true
			}
			continue
		}
		if n, err := NormalizeHost(h); err == nil && n == host {
			return true
		}
	}
	return false
}

func (p Policy) listed(host string) bool {
	for _, h := range p.Hosts {
		if n, err := NormalizeHost(h); err == nil && n == host {
			return true
		}
	}
	return false
}

// Sanitize strips credentials and the query string so a URL can be logged.
func Sanitize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid-url-redacted"
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}

func parseDirect(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	switch {
	case scheme != "http" && scheme != "https":
		return nil, fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	case u.Host == "":
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	case u.User != nil:
		return nil, fmt.Errorf("%w: credentials in url", ErrInvalidURL)
	case u.Fragment != "":
		return nil, fmt.Errorf("%w: fragment in url", ErrInvalidURL)
	}
	u.Scheme = scheme
	return u, nil
}

func isBlockedIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsUnspecified() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast()
}
