package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/touchpos/touchpos/pkg/credman/encryption"
	"github.com/touchpos/touchpos/pkg/logger"
)

const snapshotPath = "/data/TouchScreenPOS/session.json"

func newTestSession(t *testing.T, fs afero.Fs, opts ...StoreOption) *Session {
	t.Helper()
	return New(mustURL(t, "https://pos.example.hr/"), NewStore(fs, snapshotPath, opts...), logger.NewNopLogger())
}

func loginCookies(t *testing.T, s *Session) {
	t.Helper()
	exp := time.Now().Add(24 * time.Hour)
	s.Jar().SetCookies(mustURL(t, "https://pos.example.hr/api/login/"), []*http.Cookie{
		{Name: "csrftoken", Value: "abc123", Path: "/", Expires: exp},
		{Name: "sessionid", Value: "s-42", Path: "/", HttpOnly: true, Secure: true, Expires: exp},
	})
}

func TestSession_SaveLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestSession(t, fs)
	loginCookies(t, s)
	before, ok := s.SessionID()
	require.True(t, ok)

	require.True(t, s.Save())

	fresh := newTestSession(t, fs)
	require.False(t, fresh.LoggedIn())
	require.True(t, fresh.Load())

	after, ok := fresh.SessionID()
	require.True(t, ok)
	require.Equal(t, before, after)

	recs := fresh.Jar().Records(fresh.Origin())
	require.Len(t, recs, 2)
	for _, r := range recs {
		if r.Name == "sessionid" {
			require.True(t, r.HttpOnly)
			require.True(t, r.Secure)
			require.NotNil(t, r.Expires)
		}
	}
}

func TestSession_SnapshotFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestSession(t, fs)
	s.Jar().SetCookies(mustURL(t, "https://pos.example.hr/"), []*http.Cookie{{Name: "sessionid", Value: "v"}})
	require.True(t, s.Save())

	data, err := afero.ReadFile(fs, snapshotPath)
	require.NoError(t, err)

	var raw struct {
		Cookies []map[string]any `json:"cookies"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw.Cookies, 1)
	c := raw.Cookies[0]
	require.Equal(t, "sessionid", c["name"])
	require.Equal(t, "v", c["value"])
	require.Equal(t, "pos.example.hr", c["domain"])
	require.Equal(t, "/", c["path"])
	require.Equal(t, false, c["secure"])
	require.Equal(t, false, c["httpOnly"])
	require.Equal(t, true, c["hostOnly"])
	_, hasExpires := c["expires"]
	require.False(t, hasExpires, "session cookies omit expires")
	require.NotContains(t, string(data), "sealed")
}

func TestSession_HostOnlySurvivesReload(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestSession(t, fs)
	loginCookies(t, s)
	require.True(t, s.Save())

	fresh := newTestSession(t, fs)
	require.True(t, fresh.Load())
	for _, r := range fresh.Jar().Records(fresh.Origin()) {
		require.True(t, r.HostOnly, r.Name)
	}
	_, ok := fresh.Jar().Get(mustURL(t, "https://api.pos.example.hr/"), "sessionid")
	require.False(t, ok, "host-only cookies are not sent to subdomains")
}

func TestSession_LoadFailuresLeaveJarUntouched(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		s := newTestSession(t, afero.NewMemMapFs())
		require.False(t, s.Load())
		require.Equal(t, 0, s.Jar().Len())
	})

	t.Run("malformed content", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, snapshotPath, []byte("{not json"), 0600))
		s := newTestSession(t, fs)
		s.Jar().Add(Cookie{Name: "keep", Value: "1", Domain: "pos.example.hr"})
		require.False(t, s.Load())
		require.Equal(t, 1, s.Jar().Len())
	})

	t.Run("sealed without key", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, snapshotPath, []byte(`{"cookies":[],"sealed":true}`), 0600))
		s := newTestSession(t, fs)
		require.False(t, s.Load())
	})
}

func TestSession_LoadDefaultsPathAndSkipsExpired(t *testing.T) {
	fs := afero.NewMemMapFs()
	snap := `{"cookies":[
		{"name":"sessionid","value":"s1","domain":"pos.example.hr","secure":false,"httpOnly":true},
		{"name":"old","value":"x","domain":"pos.example.hr","path":"/","expires":"2001-01-01T00:00:00Z"}
	]}`
	require.NoError(t, afero.WriteFile(fs, snapshotPath, []byte(snap), 0600))

	s := newTestSession(t, fs)
	require.True(t, s.Load())
	id, ok := s.SessionID()
	require.True(t, ok)
	require.Equal(t, "s1", id)
	require.Equal(t, 1, s.Jar().Len())
}

func TestSession_SaveFailureReportsFalse(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	s := newTestSession(t, fs)
	loginCookies(t, s)
	require.False(t, s.Save())
}

func TestSession_ClearAndEnd(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestSession(t, fs)
	require.True(t, s.Clear(), "clearing a missing snapshot succeeds")

	loginCookies(t, s)
	s.SetBearer("t1")
	require.True(t, s.Save())

	require.True(t, s.End())
	require.False(t, s.LoggedIn())
	require.Empty(t, s.Bearer())
	exists, err := afero.Exists(fs, snapshotPath)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestSession_SealedSnapshot(t *testing.T) {
	sealer, err := encryption.NewSealer(bytes.Repeat([]byte{9}, 32))
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	s := newTestSession(t, fs, WithSealer(sealer))
	loginCookies(t, s)
	require.True(t, s.Save())

	data, err := afero.ReadFile(fs, snapshotPath)
	require.NoError(t, err)
	require.NotContains(t, string(data), "s-42")
	require.Contains(t, string(data), `"sealed": true`)

	fresh := newTestSession(t, fs, WithSealer(sealer))
	require.True(t, fresh.Load())
	id, _ := fresh.SessionID()
	require.Equal(t, "s-42", id)
}

func TestSession_NilStore(t *testing.T) {
	s := New(mustURL(t, "https://pos.example.hr/"), nil, nil)
	require.False(t, s.Load())
	require.False(t, s.Save())
	require.True(t, s.Clear())
}

func TestSession_OriginIsCopied(t *testing.T) {
	u := mustURL(t, "https://pos.example.hr/")
	s := New(u, nil, nil)
	u.Host = "evil.example"
	require.Equal(t, "pos.example.hr", s.Origin().Host)
	o := s.Origin()
	o.Host = "changed"
	require.Equal(t, "pos.example.hr", s.Origin().Host)
}
