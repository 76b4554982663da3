package davclient

import (
	"context"
	"net/url"
	"strings"
	"time"

	"caldavclient/ics"
	"caldavclient/internal/xml"
)

// attempt is one entry of an operation's ordered fallback list: the request
// variant to try, with any conditional headers layered on top. Operations
// walk their list until one variant succeeds; the list never holds more than
// two entries, so an operation issues at most two requests.
type attempt struct {
	headers map[string]string
	body    []byte
}

func runAttempts(attempts []attempt, send func(attempt) error) error {
	var err error
	for _, a := range attempts {
		if err = send(a); err == nil {
			return nil
		}
	}
	return err
}

// GetEvents queries a calendar collection for its VEVENT resources,
// restricted to [start, end] when both bounds are non-zero. Entries whose
// calendar-data cannot be decoded are dropped silently; one malformed event
// must not block loading the rest of a calendar.
func (c *Client) GetEvents(ctx context.Context, calendarURL string, start, end time.Time) ([]ics.Event, error) {
	collection := c.normalizeCollectionURL(calendarURL)

	var doc []byte
	err := runAttempts([]attempt{
		{body: buildCalendarQuery(start, end, lowercasePrefixes)},
		{body: buildCalendarQuery(start, end, uppercasePrefixes)},
	}, func(a attempt) error {
		var reportErr error
		doc, reportErr = c.http.Report(ctx, collection, a.body)
		return reportErr
	})
	if err != nil {
		return nil, &OperationError{Op: "query events", URL: collection, Err: err}
	}

	resources, err := xml.ExtractEventResources(doc)
	if err != nil {
		return nil, &OperationError{Op: "query events", URL: collection, Err: err}
	}

	events := make([]ics.Event, 0, len(resources))
	for _, res := range resources {
		ev, ok := ics.Decode([]byte(res.CalendarData), c.resolveURL(res.Href))
		if !ok {
			c.logger.Debug("dropping unparseable event resource", "href", res.Href)
			continue
		}
		events = append(events, *ev)
	}
	return events, nil
}

// CreateEvent writes a new event into the calendar collection. The UID is
// generated locally and the resource URL derived from it, both stable until
// deletion. A rejected plain PUT is retried once with If-None-Match: * to
// force create-only semantics on servers that reject the first form.
func (c *Client) CreateEvent(ctx context.Context, calendarURL string, ev ics.Event) (ics.Event, error) {
	uid := ics.GenerateUID()
	eventURL := c.normalizeCollectionURL(calendarURL) + uid + ".ics"

	data, err := ics.Encode(ev, uid)
	if err != nil {
		return ics.Event{}, &OperationError{Op: "create event", UID: uid, URL: eventURL, Err: err}
	}

	err = runAttempts([]attempt{
		{},
		{headers: map[string]string{"If-None-Match": "*"}},
	}, func(a attempt) error {
		return c.http.Put(ctx, eventURL, data, a.headers)
	})
	if err != nil {
		return ics.Event{}, &OperationError{Op: "create event", UID: uid, URL: eventURL, Err: err}
	}

	ev.UID = uid
	ev.ResourceURL = eventURL
	return ev, nil
}

// UpdateEvent re-encodes the full event and replaces the ICS body at its
// resource URL. A rejected plain PUT is retried once with If-Match: *. The
// input record is returned unchanged; the server is assumed to have accepted
// the full replacement.
func (c *Client) UpdateEvent(ctx context.Context, ev ics.Event) (ics.Event, error) {
	if ev.ResourceURL == "" {
		return ics.Event{}, &OperationError{Op: "update event", UID: ev.UID, Err: errMissingResourceURL}
	}

	data, err := ics.Encode(ev, ev.UID)
	if err != nil {
		return ics.Event{}, &OperationError{Op: "update event", UID: ev.UID, URL: ev.ResourceURL, Err: err}
	}

	err = runAttempts([]attempt{
		{},
		{headers: map[string]string{"If-Match": "*"}},
	}, func(a attempt) error {
		return c.http.Put(ctx, ev.ResourceURL, data, a.headers)
	})
	if err != nil {
		return ics.Event{}, &OperationError{Op: "update event", UID: ev.UID, URL: ev.ResourceURL, Err: err}
	}
	return ev, nil
}

// DeleteEvent removes the event resource. A rejected plain DELETE is retried
// once with If-Match: *. A nil return means the resource is gone.
func (c *Client) DeleteEvent(ctx context.Context, resourceURL string) error {
	err := runAttempts([]attempt{
		{},
		{headers: map[string]string{"If-Match": "*"}},
	}, func(a attempt) error {
		return c.http.Delete(ctx, resourceURL, a.headers)
	})
	if err != nil {
		return &DeleteError{URL: resourceURL, Err: err}
	}
	return nil
}

// normalizeCollectionURL shapes a calendar URL into the absolute,
// trailing-slash form event resource URLs are derived from.
func (c *Client) normalizeCollectionURL(calendarURL string) string {
	return ensureTrailingSlash(c.resolveURL(calendarURL))
}

// resolveURL resolves a possibly-relative href against the effective base
// URL. Unresolvable values are passed through untouched.
func (c *Client) resolveURL(ref string) string {
	if ref == "" {
		return c.baseURL
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
