package posapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/touchpos/touchpos/pkg/session"
)

// Result is the outcome of a request the server may legitimately reject.
type Result struct {
	Success bool
	Message string
}

// EnsureCsrfToken asks the server for a fresh CSRF cookie and returns its
// value from the jar. It reports false when the call fails or no cookie
// was set. The token is never cached: the jar is the only source.
func (c *Client) EnsureCsrfToken(ctx context.Context, s *session.Session) (string, bool) {
	r, err := c.send(ctx, s, http.MethodGet, pathCSRF, nil, nil)
	if err != nil {
		return "", false
	}
	if !r.ok() {
		c.log.Warning("api: csrf endpoint returned %d", r.status)
		return "", false
	}
	token, ok := s.Cookie(CSRFCookie)
	if !ok || token == "" {
		c.log.Warning("api: csrf endpoint did not set %s", CSRFCookie)
		return "", false
	}
	return token, true
}

// Login authenticates with username and password. On success the optional
// bearer token from the response is attached to s and the session is
// saved. Network failures and timeouts are returned as errors.
func (c *Client) Login(ctx context.Context, s *session.Session, username, password string) (Result, error) {
	csrf, ok := c.EnsureCsrfToken(ctx, s)
	if !ok {
		return Result{Message: MsgNoCSRF}, nil
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	h := c.mutatingHeader(csrf, pathLogin, "application/x-www-form-urlencoded")
	r, err := c.send(ctx, s, http.MethodPost, pathLogin, strings.NewReader(form.Encode()), h)
	if err != nil {
		return Result{}, err
	}

	if !r.ok() {
		c.log.Info("api: login rejected for %q with status %d", username, r.status)
		return Result{Message: detailOr(r.body, MsgLoginRejected)}, nil
	}

	if token := extractToken(r.body); token != "" {
		s.SetBearer(token)
	}
	if !s.Save() {
		c.log.Warning("api: login succeeded but the session could not be saved")
	}
	c.log.Info("api: logged in as %q", username)
	return Result{Success: true, Message: MsgOK}, nil
}

// extractToken returns the first string among "token", "access" and
// "access_token" in a JSON object body.
func extractToken(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, name := range []string{"token", "access", "access_token"} {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var v string
		if err := json.Unmarshal(raw, &v); err == nil && v != "" {
			return v
		}
	}
	return ""
}

// Logout tells the server to end the session and then ends it locally,
// whatever the server answered. It reports whether the server acknowledged.
func (c *Client) Logout(ctx context.Context, s *session.Session) bool {
	defer s.End()

	csrf, ok := c.EnsureCsrfToken(ctx, s)
	if !ok {
		return false
	}
	h := c.mutatingHeader(csrf, pathLogout, "application/json; charset=utf-8")
	r, err := c.send(ctx, s, http.MethodPost, pathLogout, strings.NewReader(""), h)
	if err != nil {
		return false
	}
	if !r.ok() {
		c.log.Warning("api: logout returned %d", r.status)
		return false
	}
	return true
}
