// Package sheets writes layout guide tables to spreadsheets.
package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/layoutguide/internal/common"
)

// DefaultSpreadsheetName is the title used when creating a new Google spreadsheet.
const DefaultSpreadsheetName = "PCB Layout Guide"

// AuthMethod names how the writer authenticates against Google.
type AuthMethod string

// Supported authentication methods.
const (
	AuthNone           AuthMethod = ""
	AuthOAuth          AuthMethod = "oauth"
	AuthServiceAccount AuthMethod = "service_account"
)

// Credentials are the Google authentication settings. Either the three
// OAuth2 values or a service account key path must be set, never both.
type Credentials struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TokenFile          string
	ServiceAccountPath string
}

// Method reports the configured authentication method.
func (c Credentials) Method() (AuthMethod, error) {
	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	account := c.ServiceAccountPath != ""

	switch {
	case oauth && account:
		return AuthNone, fmt.Errorf("%w: both OAuth2 and a service account are configured", common.ErrInvalidConfig)
	case oauth:
		return AuthOAuth, nil
	case account:
		return AuthServiceAccount, nil
	default:
		return AuthNone, fmt.Errorf("%w: no Google credentials configured", common.ErrInvalidConfig)
	}
}

// Config controls where and how guides are uploaded to Google Sheets.
type Config struct {
	Credentials

	// SpreadsheetID targets an existing spreadsheet; empty creates a new one
	// titled SpreadsheetName.
	SpreadsheetID   string
	SpreadsheetName string
	TimeZone        string

	// BatchSize is the number of rows sent per values update.
	BatchSize        int
	RetryAttempts    int
	RetryDelay       time.Duration
	EnableFormatting bool
}

// DefaultConfig returns the upload defaults without credentials.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  DefaultSpreadsheetName,
		TimeZone:         "UTC",
		BatchSize:        500,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
		EnableFormatting: true,
	}
}

// Validate checks credentials and upload limits.
func (c *Config) Validate() error {
	if _, err := c.Method(); err != nil {
		return err
	}
	switch {
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig)
	case c.RetryAttempts < 0:
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	case c.RetryDelay < 0:
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}
