package davclient

import (
	"errors"
	"fmt"

	"caldavclient/internal/httpclient"
)

var errMissingResourceURL = errors.New("event has no resource URL")

// TransportError is a network-level failure surfaced by the WebDAV
// transport. Aliased so callers can match it with errors.As without
// importing internal packages.
type TransportError = httpclient.TransportError

// RemoteError is a non-success HTTP response, carrying status and raw body.
type RemoteError = httpclient.RemoteError

// ConfigurationError reports an unusable credential at construction time.
// It is fatal; the caller must not proceed with the client.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid client configuration: " + e.Reason
}

// DiscoveryError wraps a failure of the full two-phase calendar discovery
// sequence after its internal fallback is exhausted.
type DiscoveryError struct {
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("calendar discovery failed: %v", e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// OperationError wraps a transport or remote failure with the event context
// (operation, uid, url) for caller logging.
type OperationError struct {
	Op  string
	UID string
	URL string
	Err error
}

func (e *OperationError) Error() string {
	if e.UID != "" {
		return fmt.Sprintf("%s %s (uid %s): %v", e.Op, e.URL, e.UID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// DeleteError reports that an event resource could not be removed.
type DeleteError struct {
	URL string
	Err error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("failed to delete event %s: %v", e.URL, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }
