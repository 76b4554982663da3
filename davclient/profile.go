package davclient

import (
	"strings"

	"caldavclient/internal/xml"
)

// ServerProfile captures per-server quirks behind a strategy interface: how
// the base URL must be shaped before any request, and which PROPFIND body to
// issue when the principal/home-set hop fails outright.
type ServerProfile interface {
	Name() string
	NormalizeBaseURL(cred Credential) string
	DiscoveryFallbackBody() []byte
}

// DetectProfile selects a profile from the base URL. DAViCal deployments are
// recognized by their caldav.php entry point; everything else gets the
// generic profile.
func DetectProfile(baseURL string) ServerProfile {
	if strings.Contains(baseURL, "caldav.php") || strings.Contains(baseURL, "davical") {
		return DAViCalProfile{}
	}
	return GenericProfile{}
}

// GenericProfile is the default: the base URL is taken as given.
type GenericProfile struct{}

func (GenericProfile) Name() string { return "generic" }

func (GenericProfile) NormalizeBaseURL(cred Credential) string {
	return ensureTrailingSlash(cred.BaseURL)
}

func (GenericProfile) DiscoveryFallbackBody() []byte {
	return xml.PropfindDiscoveryFallback()
}

// DAViCalProfile rewrites the base URL to the per-user collection root
// caldav.php/{username}/, the shape DAViCal expects for both discovery and
// event resources.
type DAViCalProfile struct{}

func (DAViCalProfile) Name() string { return "davical" }

func (DAViCalProfile) NormalizeBaseURL(cred Credential) string {
	base := ensureTrailingSlash(cred.BaseURL)
	if strings.Contains(base, "caldav.php") {
		return base
	}
	return base + "caldav.php/" + cred.Username + "/"
}

func (DAViCalProfile) DiscoveryFallbackBody() []byte {
	return xml.PropfindDiscoveryFallback()
}

func ensureTrailingSlash(url string) string {
	if strings.HasSuffix(url, "/") {
		return url
	}
	return url + "/"
}
