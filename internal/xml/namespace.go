package xml

import "github.com/beevik/etree"

// Namespace definitions for CalDAV and WebDAV
const (
	// DAV is the WebDAV namespace
	DAV = "DAV:"
	// CalDAV is the CalDAV namespace
	CalDAV = "urn:ietf:params:xml:ns:caldav"
	// AppleICal is the Apple extension namespace carrying calendar-color
	AppleICal = "http://apple.com/ns/ical/"
	// CalendarServer is the Calendar Server namespace (used by some implementations)
	CalendarServer = "http://calendarserver.org/ns/"
)

// NamespaceURI resolves the namespace URI an element belongs to. etree only
// reports the literal prefix (elem.Space), so the xmlns declaration is looked
// up on the element itself and then up the ancestor chain. Servers vary
// prefixes (D:, d:, unprefixed DAV:) arbitrarily, so all matching in this
// package goes through resolved URIs rather than qualified names.
func NamespaceURI(elem *etree.Element) string {
	prefix := elem.Space
	for e := elem; e != nil; e = e.Parent() {
		for _, attr := range e.Attr {
			if prefix == "" {
				if attr.Space == "" && attr.Key == "xmlns" {
					return attr.Value
				}
			} else if attr.Space == "xmlns" && attr.Key == prefix {
				return attr.Value
			}
		}
	}
	return ""
}

// matches reports whether elem has the given local name and resolves to the
// given namespace URI.
func matches(elem *etree.Element, ns, local string) bool {
	return elem.Tag == local && NamespaceURI(elem) == ns
}

// childElement returns the first direct child matching ns+local.
func childElement(parent *etree.Element, ns, local string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if matches(child, ns, local) {
			return child
		}
	}
	return nil
}

// descendantElements returns all descendants matching ns+local, in document order.
func descendantElements(root *etree.Element, ns, local string) []*etree.Element {
	var out []*etree.Element
	for _, child := range root.ChildElements() {
		if matches(child, ns, local) {
			out = append(out, child)
		}
		out = append(out, descendantElements(child, ns, local)...)
	}
	return out
}
