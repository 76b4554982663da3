package httpclient

import "context"

// Get fetches a resource body.
func (w *Wrapper) Get(ctx context.Context, path string) ([]byte, error) {
	w.logger.Debug("starting GET request", "url", path)
	return w.do(ctx, "GET", path, nil, nil)
}

// Options probes the server's advertised capabilities. The response body is
// discarded; only reachability matters to callers.
func (w *Wrapper) Options(ctx context.Context, path string) error {
	w.logger.Debug("starting OPTIONS request", "url", path)
	_, err := w.do(ctx, "OPTIONS", path, nil, nil)
	return err
}
