package session

import (
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Jar is an http.CookieJar that keeps full cookie records so they can be
// written to the session snapshot. At most one record exists per
// (name, domain, path).
type Jar struct {
	mu      sync.Mutex
	entries map[cookieKey]Cookie
	now     func() time.Time
}

// NewJar returns an empty Jar.
func NewJar() *Jar {
	return &Jar{
		entries: make(map[cookieKey]Cookie),
		now:     time.Now,
	}
}

func canonicalHost(u *url.URL) string {
	return strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
}

// domainFor returns the domain a Set-Cookie from host may be stored under.
// An empty attribute yields a host-only cookie.
func domainFor(host, attr string) (domain string, hostOnly, ok bool) {
	if attr == "" {
		return host, true, true
	}
	d := strings.ToLower(strings.TrimPrefix(attr, "."))
	if d == "" {
		return "", false, false
	}
	if net.ParseIP(host) != nil {
		return host, true, d == host
	}
	if !domainMatch(host, d) {
		return "", false, false
	}
	if ps, _ := publicsuffix.PublicSuffix(d); ps == d {
		// A public suffix is only accepted as the origin itself.
		return host, true, d == host
	}
	return d, false, true
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	host := canonicalHost(u)
	if host == "" {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	for _, hc := range cookies {
		if hc == nil || hc.Name == "" {
			continue
		}
		domain, hostOnly, ok := domainFor(host, hc.Domain)
		if !ok {
			continue
		}
		c := Cookie{
			Name:     hc.Name,
			Value:    hc.Value,
			Domain:   domain,
			Path:     hc.Path,
			HostOnly: hostOnly,
			Secure:   hc.Secure,
			HttpOnly: hc.HttpOnly,
		}
		c.normalize()
		k := c.key()
		switch {
		case hc.MaxAge < 0:
			delete(j.entries, k)
			continue
		case hc.MaxAge > 0:
			exp := now.Add(time.Duration(hc.MaxAge) * time.Second).UTC()
			c.Expires = &exp
		case !hc.Expires.IsZero():
			if !hc.Expires.After(now) {
				delete(j.entries, k)
				continue
			}
			exp := hc.Expires.UTC()
			c.Expires = &exp
		}
		j.entries[k] = c
	}
}

// Cookies implements http.CookieJar. Longer paths sort first.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	matched := j.match(u)
	out := make([]*http.Cookie, 0, len(matched))
	for _, c := range matched {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

func (j *Jar) match(u *url.URL) []Cookie {
	host := canonicalHost(u)
	https := u.Scheme == "https"
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	var matched []Cookie
	for k, c := range j.entries {
		if c.Expired(now) {
			delete(j.entries, k)
			continue
		}
		if !c.sentTo(host) || !pathMatch(path, c.Path) {
			continue
		}
		if c.Secure && !https {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(a, b int) bool {
		if len(matched[a].Path) != len(matched[b].Path) {
			return len(matched[a].Path) > len(matched[b].Path)
		}
		return matched[a].Name < matched[b].Name
	})
	return matched
}

// Get returns the value of the first cookie named name sent to u.
func (j *Jar) Get(u *url.URL, name string) (string, bool) {
	for _, c := range j.match(u) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Records returns every unexpired record that would be sent to u's host,
// regardless of path or scheme, ordered by domain, path and name.
func (j *Jar) Records(u *url.URL) []Cookie {
	host := canonicalHost(u)
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	var out []Cookie
	for _, c := range j.entries {
		if c.Expired(now) || !c.sentTo(host) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Domain != out[b].Domain {
			return out[a].Domain < out[b].Domain
		}
		if out[a].Path != out[b].Path {
			return out[a].Path < out[b].Path
		}
		return out[a].Name < out[b].Name
	})
	return out
}

// Add stores a record as is, replacing any record with the same key.
// Expired records are ignored.
func (j *Jar) Add(c Cookie) bool {
	c.normalize()
	if c.Name == "" || c.Domain == "" {
		return false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if c.Expired(j.now()) {
		return false
	}
	j.entries[c.key()] = c
	return true
}

// Clear drops every record.
func (j *Jar) Clear() {
	j.mu.Lock()
	j.entries = make(map[cookieKey]Cookie)
	j.mu.Unlock()
}

// Len returns the number of stored records, expired ones included.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

var _ http.CookieJar = (*Jar)(nil)
