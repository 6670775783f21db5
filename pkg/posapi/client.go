// Package posapi is the authenticated client for the inventory API. Every
// call that needs login state takes a *session.Session explicitly; the
// Client itself holds no per-session state and is safe for concurrent use.
//
// Errors fall in two groups. Transport failures (ErrNetwork, ErrTimeout,
// *StatusError) and decode failures (ErrDecode) are returned as errors.
// Rejections of login and create requests are normal outcomes and are
// returned as a Result with Success false.
package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/touchpos/touchpos/pkg/logger"
	"github.com/touchpos/touchpos/pkg/session"
)

const (
	DefaultBaseURL      = "https://mozart.sibenik1983.hr/"
	DefaultTimeout      = 15 * time.Second
	DefaultMediaTimeout = 20 * time.Second
	DefaultUserAgent    = "TouchScreenPOS/1.0"

	// CSRFCookie is set by the csrf endpoint; CSRFHeader echoes it back.
	CSRFCookie = "csrftoken"
	CSRFHeader = "X-CSRFTOKEN"

	requestIDHeader = "X-Request-ID"
)

const (
	pathCSRF            = "api/csrf/"
	pathLogin           = "api/login/"
	pathLogout          = "api/logout/"
	pathRepresentations = "api/representations/"
	pathMe              = "api/me/"
	pathUsers           = "api/users/"
	pathWarehouses      = "api/warehouses/"
	pathReasons         = "api/representation-reasons/"
	pathDrinkCategories = "api/drink-categories/"
	pathArtikli         = "api/artikli/"
)

// Options configures a Client. The zero value selects the defaults.
type Options struct {
	// Timeout bounds every API call.
	Timeout time.Duration
	// MediaTimeout bounds GetBytes calls.
	MediaTimeout time.Duration
	// Proxy is an optional http, https or socks5 proxy URL.
	Proxy     string
	UserAgent string
	Logger    logger.Logger
}

// Client talks to one API origin.
type Client struct {
	base      *url.URL
	hc        *http.Client
	media     *http.Client
	userAgent string
	log       logger.Logger
}

// NewClient creates a client for baseURL (http or https). The base path is
// forced to end with "/" so relative endpoint paths resolve beneath it.
func NewClient(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}
	base, err := url.Parse(baseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	base.RawQuery, base.Fragment = "", ""

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	mediaTimeout := opts.MediaTimeout
	if mediaTimeout <= 0 {
		mediaTimeout = DefaultMediaTimeout
	}
	hc, err := newHTTPClient(opts.Proxy, timeout)
	if err != nil {
		return nil, err
	}
	media := *hc
	media.Timeout = mediaTimeout

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Client{
		base:      base,
		hc:        hc,
		media:     &media,
		userAgent: ua,
		log:       logger.OrNop(opts.Logger),
	}, nil
}

// BaseURL returns a copy of the API origin.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// NewSession returns a logged-out session bound to the client's origin.
func (c *Client) NewSession(store *session.Store) *session.Session {
	return session.New(c.base, store, c.log)
}

func (c *Client) resolve(path string) *url.URL {
	return c.base.ResolveReference(&url.URL{Path: path})
}

type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// send issues one request. Cookies come from the session's jar and the
// session's bearer token, if any, is attached.
func (c *Client) send(ctx context.Context, s *session.Session, method, path string, body io.Reader, header http.Header) (*response, error) {
	u := c.resolve(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, id)
	for k, v := range header {
		req.Header[k] = v
	}

	hc := c.hc
	if s != nil {
		withJar := *c.hc
		withJar.Jar = s.Jar()
		hc = &withJar
		if token := s.Bearer(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Warning("api: %s %s id=%s failed: %v", method, path, id, err)
		return nil, classify(method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warning("api: %s %s id=%s read body: %v", method, path, id, err)
		return nil, classify(method, path, err)
	}
	c.log.Debug("api: %s %s id=%s status=%d in %s", method, path, id, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return &response{status: resp.StatusCode, body: data}, nil
}

// statusError builds the error for a non-2xx response. A 401 ends the
// session: the server no longer recognises it.
func (c *Client) statusError(s *session.Session, method, path string, r *response) error {
	if r.status == http.StatusUnauthorized && s != nil {
		c.log.Info("api: %s %s returned 401, ending session", method, path)
		s.End()
	}
	return &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: r.status,
		Detail:     detail(r.body),
	}
}

func (c *Client) getJSON(ctx context.Context, s *session.Session, path string, out any) error {
	r, err := c.send(ctx, s, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	if !r.ok() {
		return c.statusError(s, http.MethodGet, path, r)
	}
	if len(bytes.TrimSpace(r.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrDecode, path, err)
	}
	return nil
}

func getList[T any](ctx context.Context, c *Client, s *session.Session, path string) ([]T, error) {
	var out []T
	if err := c.getJSON(ctx, s, path, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func getOne[T any](ctx context.Context, c *Client, s *session.Session, path string) (*T, error) {
	var out *T
	if err := c.getJSON(ctx, s, path, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: GET %s", ErrEmptyBody, path)
	}
	return out, nil
}

// mutatingHeader returns the headers every state-changing call carries.
func (c *Client) mutatingHeader(csrf, path, contentType string) http.Header {
	h := http.Header{}
	h.Set(CSRFHeader, csrf)
	h.Set("Referer", c.resolve(path).String())
	h.Set("Content-Type", contentType)
	return h
}

// detail extracts the "detail" string of a JSON error body.
func detail(body []byte) string {
	var v struct {
		Detail *string `json:"detail"`
	}
	if err := json.Unmarshal(body, &v); err != nil || v.Detail == nil {
		return ""
	}
	return *v.Detail
}

func detailOr(body []byte, fallback string) string {
	if d := detail(body); d != "" {
		return d
	}
	return fallback
}

// GetBytes fetches an absolute URL without cookies or auth headers. Used
// for product images.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.media.Do(req)
	if err != nil {
		return nil, classify(http.MethodGet, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Method: http.MethodGet, Path: req.URL.Path, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(http.MethodGet, req.URL.Path, err)
	}
	return data, nil
}
