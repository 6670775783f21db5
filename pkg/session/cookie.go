package session

import (
	"strings"
	"time"
)

// Cookie is a persisted cookie record. The JSON form is the session
// snapshot file format.
type Cookie struct {
	Name    string     `json:"name"`
	Value   string     `json:"value"`
	Domain  string     `json:"domain"`
	Path    string     `json:"path"`
	Expires *time.Time `json:"expires,omitempty"`
	// HostOnly records a Set-Cookie without a Domain attribute; such a
	// cookie goes back to Domain only, never to its subdomains.
	HostOnly bool `json:"hostOnly,omitempty"`
	Secure   bool `json:"secure"`
	HttpOnly bool `json:"httpOnly"`
}

type cookieKey struct {
	name, domain, path string
}

func (c Cookie) key() cookieKey {
	return cookieKey{name: c.Name, domain: c.Domain, path: c.Path}
}

// Expired reports whether the cookie has a fixed expiry at or before now.
// Session cookies (no expiry) never expire.
func (c Cookie) Expired(now time.Time) bool {
	return c.Expires != nil && !c.Expires.After(now)
}

func (c *Cookie) normalize() {
	c.Domain = strings.ToLower(strings.TrimPrefix(c.Domain, "."))
	if c.Path == "" || c.Path[0] != '/' {
		c.Path = "/"
	}
}

func domainMatch(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// sentTo reports whether c may be sent to host.
func (c Cookie) sentTo(host string) bool {
	if c.HostOnly {
		return host == c.Domain
	}
	return domainMatch(host, c.Domain)
}

// pathMatch implements RFC 6265 section 5.1.4.
func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return cookiePath[len(cookiePath)-1] == '/' || reqPath[len(cookiePath)] == '/'
}
