package httpclient

import "context"

// Report executes a CalDAV REPORT request against a calendar collection.
func (w *Wrapper) Report(ctx context.Context, path string, body []byte) ([]byte, error) {
	w.logger.Debug("starting REPORT request", "url", path, "body_length", len(body))
	return w.do(ctx, "REPORT", path, body, map[string]string{
		"Depth": "1",
	})
}
