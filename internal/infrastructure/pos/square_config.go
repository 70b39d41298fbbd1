package pos

import (
	"errors"
	"time"
)

// SquareConfig holds configuration for the Square catalog/payments API.
type SquareConfig struct {
	// AccessToken is the bearer token for the Square account
	AccessToken string
	// APIBaseURL is the base URL for the Square API (production or sandbox)
	APIBaseURL string
	// APIVersion pins the Square-Version request header
	APIVersion string
	// LocationID is the location new orders and payments are attributed to
	LocationID string
	// IsSandbox indicates if this is a sandbox environment
	IsSandbox bool
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// RetryMaxAttempts bounds the retry loop for transient failures
	RetryMaxAttempts int
	// RetryBaseWait is the base unit for the exponential backoff schedule
	RetryBaseWait time.Duration
}

const (
	// SquareProductionAPIURL is the production API endpoint
	SquareProductionAPIURL = "https://connect.squareup.com"
	// SquareSandboxAPIURL is the sandbox API endpoint
	SquareSandboxAPIURL = "https://connect.squareupsandbox.com"
	// DefaultSquareAPIVersion is the pinned API version header value
	DefaultSquareAPIVersion = "2024-12-18"
)

// Errors for Square configuration
var (
	ErrSquareConfigMissingAccessToken = errors.New("square: access token is required")
	ErrSquareConfigMissingLocationID  = errors.New("square: location id is required")
)

// NewSquareConfig creates a new Square configuration with defaults
func NewSquareConfig(accessToken, locationID string) *SquareConfig {
	return &SquareConfig{
		AccessToken:      accessToken,
		LocationID:       locationID,
		APIBaseURL:       SquareProductionAPIURL,
		APIVersion:       DefaultSquareAPIVersion,
		IsSandbox:        false,
		TimeoutSeconds:   30,
		RetryMaxAttempts: 5,
		RetryBaseWait:    500 * time.Millisecond,
	}
}

// NewSandboxSquareConfig creates a new Square configuration for the sandbox
func NewSandboxSquareConfig(accessToken, locationID string) *SquareConfig {
	cfg := NewSquareConfig(accessToken, locationID)
	cfg.APIBaseURL = SquareSandboxAPIURL
	cfg.IsSandbox = true
	return cfg
}

// Validate validates the Square configuration
func (c *SquareConfig) Validate() error {
	if c.AccessToken == "" {
		return ErrSquareConfigMissingAccessToken
	}
	if c.LocationID == "" {
		return ErrSquareConfigMissingLocationID
	}
	if c.APIBaseURL == "" {
		if c.IsSandbox {
			c.APIBaseURL = SquareSandboxAPIURL
		} else {
			c.APIBaseURL = SquareProductionAPIURL
		}
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultSquareAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.RetryMaxAttempts <= 0 {
		c.RetryMaxAttempts = 5
	}
	if c.RetryBaseWait <= 0 {
		c.RetryBaseWait = 500 * time.Millisecond
	}
	return nil
}
