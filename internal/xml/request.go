package xml

import "github.com/beevik/etree"

// buildPropfind assembles a propfind body requesting the given properties.
// Each property is a (namespace, local) pair; prefixes are declared on the
// root so any conforming parser resolves them regardless of casing taste.
func buildPropfind(props ...[2]string) []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	root := doc.CreateElement("d:propfind")
	root.CreateAttr("xmlns:d", DAV)
	root.CreateAttr("xmlns:c", CalDAV)
	root.CreateAttr("xmlns:a", AppleICal)

	prop := root.CreateElement("d:prop")
	for _, p := range props {
		var prefix string
		switch p[0] {
		case DAV:
			prefix = "d:"
		case CalDAV:
			prefix = "c:"
		case AppleICal:
			prefix = "a:"
		}
		prop.CreateElement(prefix + p[1])
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil
	}
	return out
}

// PropfindCurrentUserPrincipal requests the principal URL of the
// authenticated user.
func PropfindCurrentUserPrincipal() []byte {
	return buildPropfind([2]string{DAV, "current-user-principal"})
}

// PropfindCalendarHomeSet requests the calendar home collection(s) of a
// principal.
func PropfindCalendarHomeSet() []byte {
	return buildPropfind([2]string{CalDAV, "calendar-home-set"})
}

// PropfindCalendarList requests the properties needed to enumerate calendar
// collections under a home set.
func PropfindCalendarList() []byte {
	return buildPropfind(
		[2]string{DAV, "resourcetype"},
		[2]string{DAV, "displayname"},
		[2]string{AppleICal, "calendar-color"},
	)
}

// PropfindResourceType is the minimal probe body used by connection testing.
func PropfindResourceType() []byte {
	return buildPropfind([2]string{DAV, "resourcetype"})
}

// PropfindDiscoveryFallback is the broad property sweep issued when the
// principal/home-set hop fails outright. Its response is not mined for
// calendars; it only re-establishes a conversation with pickier servers.
func PropfindDiscoveryFallback() []byte {
	return buildPropfind(
		[2]string{DAV, "resourcetype"},
		[2]string{DAV, "displayname"},
		[2]string{CalDAV, "calendar-home-set"},
		[2]string{CalDAV, "calendar-user-address-set"},
		[2]string{CalDAV, "schedule-inbox-URL"},
		[2]string{CalDAV, "schedule-outbox-URL"},
	)
}
