package httpclient

import "context"

// Delete removes a resource. Extra headers let callers add If-Match.
func (w *Wrapper) Delete(ctx context.Context, path string, headers map[string]string) error {
	w.logger.Debug("starting DELETE request", "url", path)
	_, err := w.do(ctx, "DELETE", path, nil, headers)
	return err
}
