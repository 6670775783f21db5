package session

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func names(cookies []*http.Cookie) []string {
	out := make([]string, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, c.Name)
	}
	return out
}

func TestJar_HostCookieDefaultsPath(t *testing.T) {
	j := NewJar()
	u := mustURL(t, "https://pos.example.hr/api/csrf/")
	j.SetCookies(u, []*http.Cookie{{Name: "csrftoken", Value: "abc123"}})

	recs := j.Records(u)
	require.Len(t, recs, 1)
	require.Equal(t, "pos.example.hr", recs[0].Domain)
	require.Equal(t, "/", recs[0].Path)
	require.Nil(t, recs[0].Expires)

	v, ok := j.Get(mustURL(t, "https://pos.example.hr/api/login/"), "csrftoken")
	require.True(t, ok)
	require.Equal(t, "abc123", v)
}

func TestJar_OneRecordPerKey(t *testing.T) {
	j := NewJar()
	u := mustURL(t, "https://pos.example.hr/")
	j.SetCookies(u, []*http.Cookie{{Name: "csrftoken", Value: "one", Path: "/"}})
	j.SetCookies(u, []*http.Cookie{{Name: "csrftoken", Value: "two", Path: "/"}})
	j.SetCookies(u, []*http.Cookie{{Name: "csrftoken", Value: "api", Path: "/api"}})

	require.Equal(t, 2, j.Len())
	got := j.Cookies(mustURL(t, "https://pos.example.hr/api/me/"))
	require.Equal(t, []string{"csrftoken", "csrftoken"}, names(got))
	require.Equal(t, "api", got[0].Value, "longer path sorts first")
	require.Equal(t, "two", got[1].Value)
}

func TestJar_DomainRules(t *testing.T) {
	j := NewJar()
	u := mustURL(t, "https://pos.example.hr/")
	j.SetCookies(u, []*http.Cookie{
		{Name: "parent", Value: "1", Domain: ".example.hr"},
		{Name: "foreign", Value: "2", Domain: "other.hr"},
		{Name: "suffix", Value: "3", Domain: "hr"},
	})

	require.Equal(t, 1, j.Len())
	_, ok := j.Get(mustURL(t, "https://shop.example.hr/"), "parent")
	require.True(t, ok, "domain cookie should be sent to sibling hosts")
	_, ok = j.Get(mustURL(t, "https://example.com/"), "parent")
	require.False(t, ok)
}

func TestJar_HostOnly(t *testing.T) {
	j := NewJar()
	u := mustURL(t, "https://example.hr/")
	j.SetCookies(u, []*http.Cookie{
		{Name: "host", Value: "1"},
		{Name: "self", Value: "2", Domain: "example.hr"},
	})

	recs := j.Records(u)
	require.Len(t, recs, 2)
	require.Equal(t, "host", recs[0].Name)
	require.True(t, recs[0].HostOnly)
	require.False(t, recs[1].HostOnly, "an explicit Domain attribute makes a domain cookie")

	require.Equal(t, []string{"host", "self"}, names(j.Cookies(u)))
	sub := mustURL(t, "https://pos.example.hr/")
	require.Equal(t, []string{"self"}, names(j.Cookies(sub)))
	require.Len(t, j.Records(sub), 1)

	j.Clear()
	require.True(t, j.Add(Cookie{Name: "host", Value: "1", Domain: "example.hr", HostOnly: true}))
	_, ok := j.Get(sub, "host")
	require.False(t, ok)
	_, ok = j.Get(u, "host")
	require.True(t, ok)
}

func TestJar_SecureAndPath(t *testing.T) {
	j := NewJar()
	u := mustURL(t, "https://pos.example.hr/")
	j.SetCookies(u, []*http.Cookie{
		{Name: "sec", Value: "1", Secure: true},
		{Name: "admin", Value: "2", Path: "/admin"},
	})

	require.Empty(t, j.Cookies(mustURL(t, "http://pos.example.hr/")))
	require.Equal(t, []string{"sec"}, names(j.Cookies(mustURL(t, "https://pos.example.hr/api/"))))
	require.Equal(t, []string{"admin", "sec"}, names(j.Cookies(mustURL(t, "https://pos.example.hr/admin/users"))))
	require.Equal(t, []string{"sec"}, names(j.Cookies(mustURL(t, "https://pos.example.hr/administrator"))))
}

func TestJar_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	j := NewJar()
	j.now = func() time.Time { return now }
	u := mustURL(t, "https://pos.example.hr/")

	j.SetCookies(u, []*http.Cookie{
		{Name: "maxage", Value: "1", MaxAge: 60},
		{Name: "expires", Value: "2", Expires: now.Add(time.Hour)},
		{Name: "stale", Value: "3", Expires: now.Add(-time.Hour)},
	})
	require.Equal(t, 2, j.Len())

	recs := j.Records(u)
	require.Len(t, recs, 2)
	for _, r := range recs {
		require.NotNil(t, r.Expires, r.Name)
	}

	// Max-Age<0 deletes.
	j.SetCookies(u, []*http.Cookie{{Name: "maxage", MaxAge: -1}})
	_, ok := j.Get(u, "maxage")
	require.False(t, ok)

	now = now.Add(2 * time.Hour)
	require.Empty(t, j.Cookies(u))
	require.Equal(t, 0, j.Len(), "expired entries are purged on lookup")
}

func TestJar_AddAndClear(t *testing.T) {
	j := NewJar()
	past := time.Now().Add(-time.Minute)
	require.False(t, j.Add(Cookie{Name: "old", Value: "x", Domain: "pos.example.hr", Expires: &past}))
	require.False(t, j.Add(Cookie{Name: "nodomain", Value: "x"}))
	require.True(t, j.Add(Cookie{Name: "sessionid", Value: "s1", Domain: ".POS.example.hr"}))

	recs := j.Records(mustURL(t, "https://pos.example.hr/"))
	require.Len(t, recs, 1)
	require.Equal(t, "pos.example.hr", recs[0].Domain)
	require.Equal(t, "/", recs[0].Path)

	j.Clear()
	require.Equal(t, 0, j.Len())
}

func TestJar_IPHost(t *testing.T) {
	j := NewJar()
	u := mustURL(t, "http://127.0.0.1:8080/api/csrf/")
	j.SetCookies(u, []*http.Cookie{
		{Name: "csrftoken", Value: "abc"},
		{Name: "bad", Value: "x", Domain: "example.hr"},
	})
	require.Equal(t, 1, j.Len())
	v, ok := j.Get(mustURL(t, "http://127.0.0.1:8080/api/login/"), "csrftoken")
	require.True(t, ok)
	require.Equal(t, "abc", v)
}

func TestPathMatch(t *testing.T) {
	tests := []struct {
		req, cookie string
		want        bool
	}{
		{"/", "/", true},
		{"/api/", "/", true},
		{"/api", "/api", true},
		{"/api/me", "/api", true},
		{"/apix", "/api", false},
		{"/", "/api", false},
		{"/api/me", "/api/", true},
	}
	for _, tt := range tests {
		if got := pathMatch(tt.req, tt.cookie); got != tt.want {
			t.Errorf("pathMatch(%q, %q) = %v; want %v", tt.req, tt.cookie, got, tt.want)
		}
	}
}
