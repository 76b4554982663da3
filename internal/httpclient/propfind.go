package httpclient

import (
	"context"
	"fmt"
)

// Propfind performs a PROPFIND request with the given XML body. Depth 0
// addresses the resource itself, depth 1 includes its direct children.
func (w *Wrapper) Propfind(ctx context.Context, path string, depth int, body []byte) ([]byte, error) {
	w.logger.Debug("starting PROPFIND request", "url", path, "depth", depth)
	return w.do(ctx, "PROPFIND", path, body, map[string]string{
		"Depth": fmt.Sprintf("%d", depth),
	})
}
