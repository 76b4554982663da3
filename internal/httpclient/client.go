package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// Wrapper extends a plain http.Client with the WebDAV verbs CalDAV needs.
// It resolves request paths against a base URL, injects default headers and
// maps failures onto the TransportError/RemoteError pair. Retry policy does
// not live here; callers own their fallback strategies.
type Wrapper struct {
	client  *http.Client
	baseURL url.URL
	logger  *slog.Logger
}

// NewWrapper creates a transport wrapper bound to baseURL.
func NewWrapper(client *http.Client, baseURL string, logger *slog.Logger) (*Wrapper, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return nil, fmt.Errorf("base URL %q is not an absolute http(s) URL", baseURL)
	}
	return &Wrapper{client: client, baseURL: *parsed, logger: logger}, nil
}

// resolveURL resolves a URL string against the base URL
func (w *Wrapper) resolveURL(urlStr string) (*url.URL, error) {
	ref, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %q: %w", urlStr, err)
	}
	return w.baseURL.ResolveReference(ref), nil
}

// do issues a single request and returns the raw response body. Non-success
// statuses become *RemoteError, network failures *TransportError.
func (w *Wrapper) do(ctx context.Context, method, urlStr string, body []byte, headers map[string]string) ([]byte, error) {
	resolved, err := w.resolveURL(urlStr)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, resolved.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w.logger.Debug("sending request", "method", method, "url", resolved.String())

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Debug("request failed", "method", method, "url", resolved.String(), "error", err)
		return nil, &TransportError{Op: method, URL: resolved.String(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: method, URL: resolved.String(), Err: err}
	}

	w.logger.Debug("received response",
		"method", method,
		"url", resolved.String(),
		"status", resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 || resp.StatusCode == http.StatusMultiStatus {
		return respBody, nil
	}
	return nil, &RemoteError{Status: resp.StatusCode, Body: string(respBody)}
}
