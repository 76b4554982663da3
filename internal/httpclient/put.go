package httpclient

import "context"

// Put writes an iCalendar resource. Extra headers let callers layer
// conditional semantics (If-Match, If-None-Match) on top.
func (w *Wrapper) Put(ctx context.Context, path string, data []byte, headers map[string]string) error {
	w.logger.Debug("starting PUT request", "url", path, "data_length", len(data))

	merged := map[string]string{
		"Content-Type": "text/calendar; charset=utf-8",
	}
	for k, v := range headers {
		merged[k] = v
	}

	_, err := w.do(ctx, "PUT", path, data, merged)
	return err
}
