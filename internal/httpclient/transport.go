package httpclient

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// AuthTransport implements http.RoundTripper and injects an Authorization
// header on every outgoing request, either Basic or Bearer depending on how
// it was constructed.
type AuthTransport struct {
	Username  string
	Password  string
	Token     string
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewBasicAuthTransport creates a transport injecting Basic credentials. If
// transport is nil, http.DefaultTransport is used.
func NewBasicAuthTransport(username, password string, transport http.RoundTripper, logger *slog.Logger) *AuthTransport {
	return &AuthTransport{
		Username:  username,
		Password:  password,
		Transport: defaultedTransport(transport),
		Logger:    defaultedLogger(logger),
	}
}

// NewBearerAuthTransport creates a transport injecting a Bearer token. If
// transport is nil, http.DefaultTransport is used.
func NewBearerAuthTransport(token string, transport http.RoundTripper, logger *slog.Logger) *AuthTransport {
	return &AuthTransport{
		Token:     token,
		Transport: defaultedTransport(transport),
		Logger:    defaultedLogger(logger),
	}
}

func defaultedTransport(transport http.RoundTripper) http.RoundTripper {
	if transport == nil {
		return http.DefaultTransport
	}
	return transport
}

func defaultedLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}

// RoundTrip implements the http.RoundTripper interface. It clones the
// request, adds the configured credentials and delegates to the underlying
// transport, tracing both sides under a per-request correlation id.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	} else {
		req.SetBasicAuth(t.Username, t.Password)
	}

	requestID := uuid.NewString()

	reqBody := ""
	if req.Body != nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err == nil {
			reqBody = string(bodyBytes)
			req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}
	}
	t.Logger.Debug("outgoing request",
		"request_id", requestID,
		"method", req.Method,
		"url", req.URL.String(),
		"body", reqBody)

	resp, err := t.Transport.RoundTrip(req)

	if err == nil && resp != nil {
		respBody := ""
		if resp.Body != nil {
			bodyBytes, err := io.ReadAll(resp.Body)
			if err == nil {
				respBody = string(bodyBytes)
				resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			}
		}
		t.Logger.Debug("incoming response",
			"request_id", requestID,
			"status", resp.Status,
			"body", respBody)
	}

	return resp, err
}
