package portal

import "time"

// Application environments recognized by the portal. Live applications
// serve production traffic; test applications do not.
const (
	EnvironmentTest = "test"
	EnvironmentLive = "live"
)

// ValidEnvironment reports whether env is a recognized application
// environment.
func ValidEnvironment(env string) bool {
	return env == EnvironmentTest || env == EnvironmentLive
}

// Organization is a portal organization the authenticated user belongs to.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Application is a registered application within an organization.
type Application struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Environment    string    `json:"environment"`
	ClientID       string    `json:"clientId"`
	RedirectURIs   []string  `json:"redirectUris,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// Credentials is the result of a credential rotation. The secret is only
// ever returned once, at rotation time.
type Credentials struct {
	ClientID     string    `json:"clientId"`
	ClientSecret string    `json:"clientSecret"`
	RotatedAt    time.Time `json:"rotatedAt,omitempty"`
}

// CreateApplicationRequest is the payload for creating an application.
type CreateApplicationRequest struct {
	OrganizationID string   `json:"organizationId"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Environment    string   `json:"environment"`
	RedirectURIs   []string `json:"redirectUris,omitempty"`
}

// UpdateApplicationRequest is the payload for updating application
// metadata. Nil fields are left unchanged.
type UpdateApplicationRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
