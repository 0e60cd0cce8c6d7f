// Package environment derives the backend API address and deployment tier
// from the location a client was loaded from. Nothing here touches the
// network.
package environment

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/me/eduportal/pkg/model"
)

const (
	// LocalAPIBaseURL is the backend address used for file: pages and
	// loopback pages served from a port other than the API port.
	LocalAPIBaseURL = "http://localhost:5001"
	// APIPort is the port the backend listens on in every deployment.
	APIPort = "5001"
)

// Location is the subset of a page location the resolver looks at.
// Protocol keeps its trailing colon ("https:") the way browsers report it.
type Location struct {
	Protocol string
	Hostname string
	Port     string
}

// ParseLocation converts a URL such as "https://staging.example.org:8443/app"
// into a Location.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: %w", raw, err)
	}
	if u.Scheme == "" {
		return Location{}, fmt.Errorf("parse location %q: missing scheme", raw)
	}
	if u.Scheme != "file" && u.Host == "" {
		return Location{}, fmt.Errorf("parse location %q: missing host", raw)
	}
	return Location{
		Protocol: strings.ToLower(u.Scheme) + ":",
		Hostname: strings.ToLower(u.Hostname()),
		Port:     u.Port(),
	}, nil
}

// Origin returns the scheme://host[:port] the location was served from.
// File locations have no origin and return "".
func (l Location) Origin() string {
	if l.Protocol == "file:" || l.Hostname == "" {
		return ""
	}
	return l.Protocol + "//" + hostPort(l.Hostname, l.Port)
}

// hostPort joins hostname and port for use in a URL, bracketing IPv6
// literals.
func hostPort(hostname, port string) string {
	if port != "" {
		return net.JoinHostPort(hostname, port)
	}
	if strings.Contains(hostname, ":") {
		return "[" + hostname + "]"
	}
	return hostname
}

func isLoopback(hostname string) bool {
	return hostname == "localhost" || hostname == "127.0.0.1"
}

// ResolveAPIBaseURL returns the backend base URL for loc. An empty result
// means requests go to the page's own origin.
func ResolveAPIBaseURL(loc Location) string {
	if loc.Protocol == "file:" {
		return LocalAPIBaseURL
	}
	if isLoopback(loc.Hostname) {
		if loc.Port == APIPort {
			return ""
		}
		return LocalAPIBaseURL
	}
	if loc.Port != "" {
		return loc.Protocol + "//" + hostPort(loc.Hostname, APIPort)
	}
	return loc.Protocol + "//" + hostPort(loc.Hostname, "")
}

// ResolveEnvironment classifies loc into a deployment tier.
func ResolveEnvironment(loc Location) model.Environment {
	switch {
	case isLoopback(loc.Hostname):
		return model.EnvDevelopment
	case strings.Contains(loc.Hostname, "staging"), strings.Contains(loc.Hostname, "test"):
		return model.EnvStaging
	default:
		return model.EnvProduction
	}
}

// Resolve computes the full descriptor for loc.
func Resolve(loc Location) model.Descriptor {
	return model.Descriptor{
		APIBaseURL:  ResolveAPIBaseURL(loc),
		Environment: ResolveEnvironment(loc),
	}
}
