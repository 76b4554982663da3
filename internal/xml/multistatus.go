package xml

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/mo"
)

// Defaults applied when a discovered calendar omits or mangles a property.
const (
	DefaultCalendarName  = "Unnamed Calendar"
	DefaultCalendarColor = "#3B82F6"
)

// Calendar is a calendar collection extracted from a multistatus response.
type Calendar struct {
	Href        string
	DisplayName string
	Color       string
}

// EventResource pairs an event's href with its raw iCalendar payload.
type EventResource struct {
	Href         string
	CalendarData string
}

func parse(doc []byte) (*etree.Element, error) {
	d := etree.NewDocument()
	if err := d.ReadFromBytes(doc); err != nil {
		return nil, fmt.Errorf("failed to parse multistatus document: %w", err)
	}
	root := d.Root()
	if root == nil {
		return nil, fmt.Errorf("empty multistatus document")
	}
	if !matches(root, DAV, "multistatus") {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}
	return root, nil
}

// ExtractCurrentUserPrincipal returns the current-user-principal href from a
// PROPFIND response, if present.
func ExtractCurrentUserPrincipal(doc []byte) (string, bool) {
	root, err := parse(doc)
	if err != nil {
		return "", false
	}
	for _, principal := range descendantElements(root, DAV, "current-user-principal") {
		if href := childElement(principal, DAV, "href"); href != nil {
			if text := strings.TrimSpace(href.Text()); text != "" {
				return text, true
			}
		}
	}
	return "", false
}

// ExtractHomeSetURLs returns the hrefs of every calendar-home-set node in
// document order. An empty slice means the server advertised no home set and
// the caller must fall back to the collection root.
func ExtractHomeSetURLs(doc []byte) ([]string, error) {
	root, err := parse(doc)
	if err != nil {
		return nil, err
	}
	var urls []string
	for _, homeSet := range descendantElements(root, CalDAV, "calendar-home-set") {
		for _, href := range homeSet.ChildElements() {
			if !matches(href, DAV, "href") {
				continue
			}
			if text := strings.TrimSpace(href.Text()); text != "" {
				urls = append(urls, text)
			}
		}
	}
	return urls, nil
}

// ExtractCalendars returns every response node whose resourcetype carries a
// CalDAV calendar child. Nodes without an href are skipped. Relative hrefs
// are resolved against baseURL.
func ExtractCalendars(doc []byte, baseURL string) ([]Calendar, error) {
	root, err := parse(doc)
	if err != nil {
		return nil, err
	}

	var calendars []Calendar
	for _, resp := range descendantElements(root, DAV, "response") {
		resourceType := firstProp(resp, DAV, "resourcetype")
		if resourceType.IsAbsent() {
			continue
		}
		if childElement(resourceType.MustGet(), CalDAV, "calendar") == nil {
			continue
		}

		href := childElement(resp, DAV, "href")
		if href == nil || strings.TrimSpace(href.Text()) == "" {
			continue
		}

		name := propText(resp, DAV, "displayname").OrElse(DefaultCalendarName)
		color := normalizeColor(propText(resp, AppleICal, "calendar-color"))

		calendars = append(calendars, Calendar{
			Href:        resolveHref(baseURL, strings.TrimSpace(href.Text())),
			DisplayName: name,
			Color:       color,
		})
	}
	return calendars, nil
}

// ExtractEventResources returns the (href, calendar-data) pairs of a REPORT
// response. Entries missing either part are skipped; servers may return mixed
// partial results and one incomplete entry must not fail the batch.
func ExtractEventResources(doc []byte) ([]EventResource, error) {
	root, err := parse(doc)
	if err != nil {
		return nil, err
	}

	var resources []EventResource
	for _, resp := range descendantElements(root, DAV, "response") {
		href := childElement(resp, DAV, "href")
		if href == nil || strings.TrimSpace(href.Text()) == "" {
			continue
		}
		data := propText(resp, CalDAV, "calendar-data")
		if data.IsAbsent() || strings.TrimSpace(data.MustGet()) == "" {
			continue
		}
		resources = append(resources, EventResource{
			Href:         strings.TrimSpace(href.Text()),
			CalendarData: data.MustGet(),
		})
	}
	return resources, nil
}

// firstProp finds a property element anywhere below a response node. Walking
// descendants rather than the response>propstat>prop path tolerates servers
// that omit or rename the propstat wrapper.
func firstProp(resp *etree.Element, ns, local string) mo.Option[*etree.Element] {
	elems := descendantElements(resp, ns, local)
	if len(elems) == 0 {
		return mo.None[*etree.Element]()
	}
	return mo.Some(elems[0])
}

func propText(resp *etree.Element, ns, local string) mo.Option[string] {
	elem := firstProp(resp, ns, local)
	if elem.IsAbsent() {
		return mo.None[string]()
	}
	text := elem.MustGet().Text()
	if strings.TrimSpace(text) == "" {
		return mo.None[string]()
	}
	return mo.Some(text)
}

// normalizeColor validates a calendar-color value as exactly 6 hex digits
// after stripping the leading #. Anything else falls back to the default.
func normalizeColor(color mo.Option[string]) string {
	raw, ok := color.Get()
	if !ok {
		return DefaultCalendarColor
	}
	hex := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(hex) != 6 {
		return DefaultCalendarColor
	}
	for _, r := range hex {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return DefaultCalendarColor
		}
	}
	return "#" + strings.ToUpper(hex)
}

func resolveHref(baseURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
