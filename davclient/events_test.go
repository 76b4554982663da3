package davclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"caldavclient/ics"
)

func vevent(uid, summary, start, end string) string {
	return strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:20240301T000000Z",
		"SUMMARY:" + summary,
		"DTSTART:" + start,
		"DTEND:" + end,
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")
}

func reportResponse(entries ...[2]string) string {
	var b strings.Builder
	b.WriteString(`<D:multistatus xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav">`)
	for _, entry := range entries {
		b.WriteString(`<D:response><D:href>`)
		b.WriteString(entry[0])
		b.WriteString(`</D:href><D:propstat><D:prop><C:calendar-data>`)
		b.WriteString(entry[1])
		b.WriteString(`</C:calendar-data><D:getetag>"1"</D:getetag></D:prop>`)
		b.WriteString(`<D:status>HTTP/1.1 200 OK</D:status></D:propstat></D:response>`)
	}
	b.WriteString(`</D:multistatus>`)
	return b.String()
}

func TestGetEventsPartialFailure(t *testing.T) {
	response := reportResponse(
		[2]string{"/cal/alice/a.ics", vevent("a", "First", "20240301T100000Z", "20240301T110000Z")},
		[2]string{"/cal/alice/bad.ics", "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//t//EN\r\nBEGIN:VEVENT\r\nUID:bad\r\nEND:VEVENT\r\nEND:VCALENDAR"},
		[2]string{"/cal/alice/b.ics", vevent("b", "Second", "20240302T100000Z", "20240302T110000Z")},
	)

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "REPORT" {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusMultiStatus)
		w.Write([]byte(response))
	})

	events, err := client.GetEvents(context.Background(), "/cal/alice/", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want the 2 parseable ones: %+v", len(events), events)
	}
	if events[0].UID != "a" || events[1].UID != "b" {
		t.Errorf("events out of order: %q, %q", events[0].UID, events[1].UID)
	}
	if events[0].ResourceURL != server.URL+"/cal/alice/a.ics" {
		t.Errorf("ResourceURL = %q, want absolute form", events[0].ResourceURL)
	}
}

func TestGetEventsTimeRange(t *testing.T) {
	var body string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.WriteHeader(http.StatusMultiStatus)
		w.Write([]byte(reportResponse()))
	})

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	if _, err := client.GetEvents(context.Background(), "/cal/alice/", start, end); err != nil {
		t.Fatalf("GetEvents() error = %v", err)
	}

	for _, want := range []string{"VCALENDAR", "VEVENT", `start="20240301T000000Z"`, `end="20240401T000000Z"`} {
		if !strings.Contains(body, want) {
			t.Errorf("query body missing %q:\n%s", want, body)
		}
	}

	// Without both bounds, no time-range element is emitted.
	if _, err := client.GetEvents(context.Background(), "/cal/alice/", start, time.Time{}); err != nil {
		t.Fatalf("GetEvents() error = %v", err)
	}
	if strings.Contains(body, "time-range") {
		t.Errorf("open-ended query must omit time-range:\n%s", body)
	}
}

func TestGetEventsPrefixFallback(t *testing.T) {
	var bodies []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(raw))
		if len(bodies) == 1 {
			// Prefix-sensitive server rejects the first casing.
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusMultiStatus)
		w.Write([]byte(reportResponse(
			[2]string{"/cal/alice/a.ics", vevent("a", "First", "20240301T100000Z", "20240301T110000Z")},
		)))
	})

	events, err := client.GetEvents(context.Background(), "/cal/alice/", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if len(bodies) != 2 {
		t.Fatalf("got %d attempts, want exactly 2", len(bodies))
	}
	if !strings.Contains(bodies[0], "<c:calendar-query") {
		t.Errorf("first attempt should use lowercase prefixes:\n%s", bodies[0])
	}
	if !strings.Contains(bodies[1], "<C:calendar-query") {
		t.Errorf("second attempt should switch prefix casing:\n%s", bodies[1])
	}
}

func TestCreateEventRetriesWithIfNoneMatch(t *testing.T) {
	var puts []http.Header
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("unexpected method %s", r.Method)
		}
		puts = append(puts, r.Header.Clone())
		if len(puts) == 1 {
			w.WriteHeader(http.StatusPreconditionFailed)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	ev := ics.Event{
		Title: "New event",
		Start: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
	}
	created, err := client.CreateEvent(context.Background(), "/cal/alice/", ev)
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	if len(puts) != 2 {
		t.Fatalf("got %d PUTs, want exactly 2", len(puts))
	}
	if puts[0].Get("If-None-Match") != "" {
		t.Error("first attempt must be a plain PUT")
	}
	if puts[1].Get("If-None-Match") != "*" {
		t.Error("second attempt must add If-None-Match: *")
	}
	if ct := puts[0].Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q, want text/calendar", ct)
	}

	if created.UID == "" {
		t.Error("created event has no UID")
	}
	wantURL := server.URL + "/cal/alice/" + created.UID + ".ics"
	if created.ResourceURL != wantURL {
		t.Errorf("ResourceURL = %q, want %q", created.ResourceURL, wantURL)
	}
}

func TestCreateEventNoThirdAttempt(t *testing.T) {
	var puts int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		puts++
		w.WriteHeader(http.StatusForbidden)
	})

	ev := ics.Event{
		Title: "Rejected",
		Start: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
	}
	_, err := client.CreateEvent(context.Background(), "/cal/alice/", ev)

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error = %v, want *OperationError", err)
	}
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.Status != http.StatusForbidden {
		t.Fatalf("want wrapped *RemoteError with status 403, got %v", err)
	}
	if puts != 2 {
		t.Errorf("got %d PUTs, want exactly 2 (no third attempt)", puts)
	}
}

func TestUpdateEventRetriesWithIfMatch(t *testing.T) {
	var puts []http.Header
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		puts = append(puts, r.Header.Clone())
		if r.URL.Path != "/cal/alice/ev-1.ics" {
			t.Errorf("PUT hit %s, want the event resource URL", r.URL.Path)
		}
		if len(puts) == 1 {
			w.WriteHeader(http.StatusPreconditionFailed)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	ev := ics.Event{
		UID:         "ev-1",
		ResourceURL: server.URL + "/cal/alice/ev-1.ics",
		Title:       "Edited",
		Start:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
	}
	updated, err := client.UpdateEvent(context.Background(), ev)
	if err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}

	if len(puts) != 2 {
		t.Fatalf("got %d PUTs, want exactly 2", len(puts))
	}
	if puts[1].Get("If-Match") != "*" {
		t.Error("second attempt must add If-Match: *")
	}
	if updated != ev {
		t.Errorf("UpdateEvent() = %+v, want the input record unchanged", updated)
	}
}

func TestUpdateEventWithoutResourceURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.UpdateEvent(context.Background(), ics.Event{UID: "ev-2", Title: "x"})
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error = %v, want *OperationError", err)
	}
}

func TestDeleteEventRetriesThenSucceeds(t *testing.T) {
	var deletes []http.Header
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		deletes = append(deletes, r.Header.Clone())
		if len(deletes) == 1 {
			w.WriteHeader(http.StatusLocked)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteEvent(context.Background(), server.URL+"/cal/alice/a.ics"); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if len(deletes) != 2 {
		t.Fatalf("got %d DELETEs, want exactly 2", len(deletes))
	}
	if deletes[1].Get("If-Match") != "*" {
		t.Error("second attempt must add If-Match: *")
	}
}

func TestDeleteEventFailure(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.DeleteEvent(context.Background(), server.URL+"/cal/alice/gone.ics")
	var delErr *DeleteError
	if !errors.As(err, &delErr) {
		t.Fatalf("error = %v, want *DeleteError", err)
	}
}
