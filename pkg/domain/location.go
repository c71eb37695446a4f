package domain

import "strings"

// EndpointPrefix marks a location or link that names an endpoint.
const EndpointPrefix = "endpoint:"

// Location is a section name or an endpoint name prefixed with EndpointPrefix.
type Location string

// IsEndpoint reports whether the location names an endpoint.
func (l Location) IsEndpoint() bool {
	return strings.HasPrefix(string(l), EndpointPrefix)
}

// Name returns the section or endpoint name without the prefix.
func (l Location) Name() string {
	return strings.TrimPrefix(string(l), EndpointPrefix)
}

// EndpointLocation builds the location of the named endpoint.
func EndpointLocation(name string) Location {
	return Location(EndpointPrefix + name)
}
