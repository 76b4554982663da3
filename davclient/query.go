package davclient

import (
	"time"

	"github.com/beevik/etree"

	"caldavclient/internal/xml"
)

const queryTimeLayout = "20060102T150405Z"

// prefixStyle selects the namespace prefix casing of a generated
// calendar-query. XML namespace semantics say prefixes are arbitrary, yet
// some server implementations only accept one casing; the client retries a
// failed REPORT once with the alternate style.
type prefixStyle struct {
	dav    string
	caldav string
}

var (
	lowercasePrefixes = prefixStyle{dav: "d", caldav: "c"}
	uppercasePrefixes = prefixStyle{dav: "D", caldav: "C"}
)

// buildCalendarQuery renders the calendar-query REPORT body filtered to
// VCALENDAR/VEVENT. The time-range element is emitted only when both bounds
// are set, as UTC basic-format timestamps.
func buildCalendarQuery(start, end time.Time, style prefixStyle) []byte {
	d := style.dav + ":"
	c := style.caldav + ":"

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	root := doc.CreateElement(c + "calendar-query")
	root.CreateAttr("xmlns:"+style.dav, xml.DAV)
	root.CreateAttr("xmlns:"+style.caldav, xml.CalDAV)

	prop := root.CreateElement(d + "prop")
	prop.CreateElement(d + "getetag")
	prop.CreateElement(c + "calendar-data")

	filter := root.CreateElement(c + "filter")
	vcal := filter.CreateElement(c + "comp-filter")
	vcal.CreateAttr("name", "VCALENDAR")
	vevent := vcal.CreateElement(c + "comp-filter")
	vevent.CreateAttr("name", "VEVENT")

	if !start.IsZero() && !end.IsZero() {
		timeRange := vevent.CreateElement(c + "time-range")
		timeRange.CreateAttr("start", start.UTC().Format(queryTimeLayout))
		timeRange.CreateAttr("end", end.UTC().Format(queryTimeLayout))
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil
	}
	return out
}
