package httpclient

import "fmt"

// TransportError is a network-level failure (DNS, connection refused,
// timeout) before any HTTP status was received.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is a non-success HTTP response from the server. Body carries
// the raw response payload for caller logging.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server returned status %d", e.Status)
}
