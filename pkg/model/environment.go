package model

// Environment is the deployment tier a client is talking to.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Descriptor is the resolved backend address for a page location.
// An empty APIBaseURL means "same origin".
type Descriptor struct {
	APIBaseURL  string      `json:"apiBaseUrl"`
	Environment Environment `json:"environment"`
}

// SameOrigin reports whether requests go to the page's own origin.
func (d Descriptor) SameOrigin() bool {
	return d.APIBaseURL == ""
}
