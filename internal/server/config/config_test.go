package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "party", cfg.CollectorUsername)
	assert.Equal(t, "0.05", cfg.FeeRate.String())
	assert.Equal(t, "0.1", cfg.TaxRate.String())
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout)
	assert.False(t, cfg.TaxSweepEnabled)
	assert.NotEmpty(t, cfg.DatabaseDSN)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"server",
		"-d", "postgres://test/db",
		"-k", "treasury",
		"-f", "0.02",
		"-x", "0.07",
		"-t", "30",
		"-o", "10",
		"-w",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "postgres://test/db", cfg.DatabaseDSN)
	assert.Equal(t, "treasury", cfg.CollectorUsername)
	assert.Equal(t, "0.02", cfg.FeeRate.String())
	assert.Equal(t, "0.07", cfg.TaxRate.String())
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 10*time.Second, cfg.StorageTimeout)
	assert.True(t, cfg.TaxSweepEnabled)
}

func TestParseFlags_IgnoresUnknown(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"server", "-z", "whatever", "-d", "dsn1"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "dsn1", cfg.DatabaseDSN)
}

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	file, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)

	_, err = file.WriteString(`{
		"database_dsn": "postgres://json/db",
		"collector_username": "vault",
		"fee_rate": "0.03",
		"tax_rate": "0.12",
		"access_token_validity_duration": "45m",
		"storage_timeout": "3s",
		"tax_sweep_enabled": true
	}`)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	os.Args = []string{"server", "-c", file.Name()}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "postgres://json/db", cfg.DatabaseDSN)
	assert.Equal(t, "vault", cfg.CollectorUsername)
	assert.Equal(t, "0.03", cfg.FeeRate.String())
	assert.Equal(t, "0.12", cfg.TaxRate.String())
	assert.Equal(t, 45*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 3*time.Second, cfg.StorageTimeout)
	assert.True(t, cfg.TaxSweepEnabled)
}

func TestParseJson_NoFile(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"server"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	// Nothing overridden.
	assert.Equal(t, "party", cfg.CollectorUsername)
}
