// Package version holds the library identity reported to the portal's
// usage-accounting endpoint.
package version

const (
	// Library is the name this client reports to the portal.
	Library = "cpb-go"
	// Release is the library version string.
	Release = "0.2.0"
)
