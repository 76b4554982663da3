// Package davclient implements a CalDAV protocol client: connection
// testing, calendar discovery and event CRUD against a remote WebDAV/CalDAV
// server. It carries credentials to the server but manages no sessions,
// persists nothing and keeps no state between calls beyond the immutable
// base URL, so one client may be used concurrently.
package davclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"caldavclient/internal/httpclient"
	"caldavclient/internal/xml"
)

// AuthKind selects how credentials are presented to the server.
type AuthKind int

const (
	// AuthBasic sends Authorization: Basic base64(username:password).
	AuthBasic AuthKind = iota
	// AuthBearer sends Authorization: Bearer token.
	AuthBearer
)

// Credential holds the connection parameters for one CalDAV server. It is
// owned by exactly one Client and never mutated after construction.
type Credential struct {
	BaseURL  string
	Kind     AuthKind
	Username string
	Password string
	Token    string
}

// CalendarInfo describes a discovered calendar collection.
type CalendarInfo struct {
	URL   string
	Name  string
	Color string
}

// Client is a CalDAV client bound to a single server credential for its
// lifetime. All state is immutable after New, so concurrent calls are safe.
type Client struct {
	http    *httpclient.Wrapper
	baseURL string
	profile ServerProfile
	logger  *slog.Logger
}

// Option configures a Client at construction.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	profile    ServerProfile
}

// WithHTTPClient supplies the underlying HTTP client. Its transport is
// wrapped with auth injection; its timeout governs worst-case latency.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger enables debug tracing of every request and response.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProfile overrides URL-based profile detection with an explicit server
// profile.
func WithProfile(p ServerProfile) Option {
	return func(o *options) { o.profile = p }
}

// New creates a client for the given credential. The effective base URL is
// computed exactly once here, via the server profile; it never changes over
// the client's lifetime.
func New(cred Credential, opts ...Option) (*Client, error) {
	if cred.BaseURL == "" {
		return nil, &ConfigurationError{Reason: "base URL is required"}
	}
	switch cred.Kind {
	case AuthBasic:
		if cred.Username == "" || cred.Password == "" {
			return nil, &ConfigurationError{Reason: "basic auth requires username and password"}
		}
	case AuthBearer:
		if cred.Token == "" {
			return nil, &ConfigurationError{Reason: "bearer auth requires a token"}
		}
	default:
		return nil, &ConfigurationError{Reason: "unknown auth kind"}
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{}
	}
	if o.profile == nil {
		o.profile = DetectProfile(cred.BaseURL)
	}

	base := o.httpClient.Transport
	var authed http.RoundTripper
	if cred.Kind == AuthBearer {
		authed = httpclient.NewBearerAuthTransport(cred.Token, base, o.logger)
	} else {
		authed = httpclient.NewBasicAuthTransport(cred.Username, cred.Password, base, o.logger)
	}
	client := &http.Client{
		Transport:     authed,
		CheckRedirect: o.httpClient.CheckRedirect,
		Jar:           o.httpClient.Jar,
		Timeout:       o.httpClient.Timeout,
	}

	baseURL := o.profile.NormalizeBaseURL(cred)
	wrapper, err := httpclient.NewWrapper(client, baseURL, o.logger)
	if err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}

	return &Client{
		http:    wrapper,
		baseURL: baseURL,
		profile: o.profile,
		logger:  o.logger,
	}, nil
}

// BaseURL returns the effective base URL computed at construction.
func (c *Client) BaseURL() string { return c.baseURL }

// TestConnection probes the collection root with OPTIONS, then GET, then a
// minimal PROPFIND. Different servers expose different minimal-cost verbs,
// so the ordered probe maximizes compatibility without assuming server
// identity. It reports reachability and never returns an error; it is a
// pre-flight capability probe, not an action.
func (c *Client) TestConnection(ctx context.Context) bool {
	if err := c.http.Options(ctx, ""); err == nil {
		return true
	}
	if _, err := c.http.Get(ctx, ""); err == nil {
		return true
	}
	if _, err := c.http.Propfind(ctx, "", 0, xml.PropfindResourceType()); err == nil {
		return true
	}
	c.logger.Debug("all connection probes failed", "base_url", c.baseURL)
	return false
}
