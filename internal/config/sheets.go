package config

import (
	"os"

	"github.com/Veraticus/layoutguide/internal/sheets"
	"github.com/spf13/viper"
)

// sheetsBinding ties one Google Sheets setting to its viper key and the
// GOOGLE_SHEETS_* fallback variable.
type sheetsBinding struct {
	dest   *string
	key    string
	env    string
	isPath bool
}

// LoadSheetsConfig builds the Google Sheets writer settings. Each value comes
// from viper (config file or LAYOUTGUIDE_SHEETS_* env) first, then from the
// matching GOOGLE_SHEETS_* variable, then from sheets.DefaultConfig. A refresh
// token missing from both is read from the token file written by auth sheets.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	bindings := []sheetsBinding{
		{dest: &cfg.ServiceAccountPath, key: "sheets.service_account_path", env: "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", isPath: true},
		{dest: &cfg.ClientID, key: "sheets.client_id", env: "GOOGLE_SHEETS_CLIENT_ID"},
		{dest: &cfg.ClientSecret, key: "sheets.client_secret", env: "GOOGLE_SHEETS_CLIENT_SECRET"},
		{dest: &cfg.RefreshToken, key: "sheets.refresh_token", env: "GOOGLE_SHEETS_REFRESH_TOKEN"},
		{dest: &cfg.TokenFile, key: "sheets.token_file", isPath: true},
		{dest: &cfg.SpreadsheetID, key: "sheets.spreadsheet_id", env: "GOOGLE_SHEETS_SPREADSHEET_ID"},
		{dest: &cfg.SpreadsheetName, key: "sheets.spreadsheet_name", env: "GOOGLE_SHEETS_SPREADSHEET_NAME"},
	}
	for _, b := range bindings {
		v := viper.GetString(b.key)
		if v == "" && b.env != "" {
			v = os.Getenv(b.env)
		}
		if v == "" {
			continue
		}
		if b.isPath {
			v = ExpandPath(v)
		}
		*b.dest = v
	}

	if viper.IsSet("sheets.formatting") {
		cfg.EnableFormatting = viper.GetBool("sheets.formatting")
	}
	if n := viper.GetInt("sheets.batch_size"); n != 0 {
		cfg.BatchSize = n
	}

	if err := cfg.ApplyTokenFile(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
