package ics

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
)

const (
	prodID = "-//caldavclient//NONSGML v1.0//EN"

	// Timed values travel in the Z-suffixed UTC basic format with second
	// precision; all-day values are bare 8-digit dates.
	dateTimeLayout = "20060102T150405Z"
)

// Encode renders an event as a complete VCALENDAR document under the given
// UID. All-day events emit VALUE=DATE start/end; timed events emit UTC
// instants. Fails when uid is empty or start is after end.
func Encode(ev Event, uid string) ([]byte, error) {
	if uid == "" {
		return nil, fmt.Errorf("event UID must not be empty")
	}
	if ev.End.Before(ev.Start) {
		return nil, fmt.Errorf("event end %v precedes start %v", ev.End, ev.Start)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.Value = time.Now().UTC().Format(dateTimeLayout)
	event.Props.Set(stamp)

	event.Props.Set(dateProp(ical.PropDateTimeStart, ev.Start, ev.AllDay))
	event.Props.Set(dateProp(ical.PropDateTimeEnd, ev.End, ev.AllDay))

	event.Props.SetText(ical.PropSummary, ev.Title)
	if ev.Description != "" {
		event.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		event.Props.SetText(ical.PropLocation, ev.Location)
	}
	if ev.RecurrenceRule != "" {
		rule := ical.NewProp(ical.PropRecurrenceRule)
		rule.Value = ev.RecurrenceRule
		event.Props.Set(rule)
	}

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func dateProp(name string, t time.Time, allDay bool) *ical.Prop {
	p := ical.NewProp(name)
	if allDay {
		p.SetDate(t)
	} else {
		p.Value = t.UTC().Format(dateTimeLayout)
	}
	return p
}

// Decode extracts the first VEVENT of an iCalendar document into an event
// record bound to resourceURL. It reports ok=false instead of an error when
// the document is malformed or misses UID, SUMMARY, DTSTART or DTEND;
// servers return mixed partial results and one bad entry must not fail the
// caller's aggregation loop.
func Decode(data []byte, resourceURL string) (*Event, bool) {
	// calendar-data arrives wrapped in XML and usually padded with the
	// element's indentation.
	cal, err := ical.NewDecoder(bytes.NewReader(bytes.TrimSpace(data))).Decode()
	if err != nil {
		return nil, false
	}

	events := cal.Events()
	if len(events) == 0 {
		return nil, false
	}
	props := events[0].Props

	uid, ok := requiredText(props, ical.PropUID)
	if !ok {
		return nil, false
	}
	title, ok := requiredText(props, ical.PropSummary)
	if !ok {
		return nil, false
	}

	startProp := props.Get(ical.PropDateTimeStart)
	endProp := props.Get(ical.PropDateTimeEnd)
	if startProp == nil || endProp == nil {
		return nil, false
	}

	// All-day detection: an explicit DATE value with no TZID qualifier.
	allDay := strings.EqualFold(startProp.Params.Get(ical.ParamValue), string(ical.ValueDate)) &&
		startProp.Params.Get(ical.PropTimezoneID) == ""

	start, err := startProp.DateTime(time.UTC)
	if err != nil {
		return nil, false
	}
	end, err := endProp.DateTime(time.UTC)
	if err != nil {
		return nil, false
	}

	ev := &Event{
		UID:         uid,
		ResourceURL: resourceURL,
		Title:       title,
		Start:       start,
		End:         end,
		AllDay:      allDay,
	}
	if desc, ok := optionalText(props, ical.PropDescription); ok {
		ev.Description = desc
	}
	if loc, ok := optionalText(props, ical.PropLocation); ok {
		ev.Location = loc
	}
	if rule := props.Get(ical.PropRecurrenceRule); rule != nil {
		ev.RecurrenceRule = rule.Value
	}
	return ev, true
}

func requiredText(props ical.Props, name string) (string, bool) {
	text, ok := optionalText(props, name)
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

func optionalText(props ical.Props, name string) (string, bool) {
	p := props.Get(name)
	if p == nil {
		return "", false
	}
	text, err := p.Text()
	if err != nil {
		return "", false
	}
	return text, true
}
