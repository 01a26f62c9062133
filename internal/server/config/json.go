package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ledgerkeeper/internal/flagx"
	"github.com/dmitrijs2005/ledgerkeeper/internal/timex"
	"github.com/shopspring/decimal"
)

// JsonConfig is the intermediate DTO for the optional JSON config file.
// Durations use timex.Duration so both "30s" strings and integer
// nanoseconds parse; rates are decimal strings.
type JsonConfig struct {
	DatabaseDSN                 string         `json:"database_dsn"`
	CollectorUsername           string         `json:"collector_username"`
	FeeRate                     string         `json:"fee_rate"`
	TaxRate                     string         `json:"tax_rate"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	StorageTimeout              timex.Duration `json:"storage_timeout"`
	TaxSweepEnabled             *bool          `json:"tax_sweep_enabled"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Absent fields keep their current values; an unreadable or invalid
// file panics, since running with half-applied configuration is worse than
// not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.CollectorUsername != "" {
		config.CollectorUsername = c.CollectorUsername
	}
	if c.FeeRate != "" {
		config.FeeRate = decimal.RequireFromString(c.FeeRate)
	}
	if c.TaxRate != "" {
		config.TaxRate = decimal.RequireFromString(c.TaxRate)
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.StorageTimeout.Duration != 0 {
		config.StorageTimeout = c.StorageTimeout.Duration
	}
	if c.TaxSweepEnabled != nil {
		config.TaxSweepEnabled = *c.TaxSweepEnabled
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
