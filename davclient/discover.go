package davclient

import (
	"context"
	"fmt"

	"caldavclient/internal/xml"
)

// DiscoverCalendars finds the calendar collections available to the
// configured credential.
//
// Phase 1 resolves the principal's calendar home set: a depth-0 PROPFIND for
// current-user-principal, then a depth-0 PROPFIND for calendar-home-set
// against the principal (or the root when no principal was advertised). If
// that whole hop fails, the profile's broad fallback PROPFIND is issued
// against the root; its response is deliberately not mined for calendars, it
// only re-establishes a conversation with servers that reject the narrow
// queries.
//
// Phase 2 lists each home-set URL (or "" when none were found) at depth 1
// and extracts the collections whose resourcetype is a CalDAV calendar.
// Results are aggregated across home sets without de-duplication; merging
// against existing records is the caller's concern.
func (c *Client) DiscoverCalendars(ctx context.Context) ([]CalendarInfo, error) {
	homeSets, err := c.findHomeSets(ctx)
	if err != nil {
		c.logger.Debug("principal discovery failed, issuing fallback propfind", "error", err)
		if _, fbErr := c.http.Propfind(ctx, "", 0, c.profile.DiscoveryFallbackBody()); fbErr != nil {
			return nil, &DiscoveryError{Err: fbErr}
		}
		homeSets = nil
	}
	if len(homeSets) == 0 {
		// No home set advertised; list the collection root directly.
		homeSets = []string{""}
	}

	var calendars []CalendarInfo
	for _, homeSet := range homeSets {
		doc, err := c.http.Propfind(ctx, homeSet, 1, xml.PropfindCalendarList())
		if err != nil {
			return nil, &DiscoveryError{Err: fmt.Errorf("failed to list calendars under %q: %w", homeSet, err)}
		}

		found, err := xml.ExtractCalendars(doc, c.resolveURL(homeSet))
		if err != nil {
			return nil, &DiscoveryError{Err: err}
		}
		for _, cal := range found {
			calendars = append(calendars, CalendarInfo{
				URL:   cal.Href,
				Name:  cal.DisplayName,
				Color: cal.Color,
			})
		}
	}

	c.logger.Debug("calendar discovery complete",
		"home_sets", len(homeSets),
		"calendars", len(calendars))
	return calendars, nil
}

// findHomeSets performs the principal and home-set PROPFIND hops of phase 1.
func (c *Client) findHomeSets(ctx context.Context) ([]string, error) {
	doc, err := c.http.Propfind(ctx, "", 0, xml.PropfindCurrentUserPrincipal())
	if err != nil {
		return nil, fmt.Errorf("failed to query current-user-principal: %w", err)
	}

	principal := ""
	if href, ok := xml.ExtractCurrentUserPrincipal(doc); ok {
		principal = href
	}

	doc, err = c.http.Propfind(ctx, principal, 0, xml.PropfindCalendarHomeSet())
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar-home-set: %w", err)
	}
	return xml.ExtractHomeSetURLs(doc)
}
