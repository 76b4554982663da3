// Package ics converts between event records and the subset of RFC 5545
// iCalendar text a CalDAV client needs to speak: VCALENDAR/VEVENT with
// summary, description, location, start/end, an all-day flag and a one-level
// recurrence rule carried as a raw string.
package ics

import "time"

// Event is the plain-data event record exchanged with a CalDAV server.
//
// Timed events are UTC instants on the wire regardless of the creating
// client's local zone; all-day events carry date-only precision with no
// time-of-day and no timezone. Recurrence rules pass through unexpanded.
type Event struct {
	UID            string
	ResourceURL    string
	Title          string
	Description    string
	Location       string
	Start          time.Time
	End            time.Time
	AllDay         bool
	RecurrenceRule string
}
