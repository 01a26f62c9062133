package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/flagx"
	"github.com/shopspring/decimal"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-k string   collector account username
//	-f string   transfer fee rate (e.g. "0.05")
//	-x string   monthly tax rate (e.g. "0.10")
//	-s string   principal token HMAC secret key
//	-t int      principal token validity, minutes
//	-o int      storage timeout, seconds
//	-w          enable the in-daemon monthly tax scheduler
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Rates are
// parsed as decimal strings; malformed values keep the current setting.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-d", "-k", "-f", "-x", "-s", "-t", "-o", "-w", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.CollectorUsername, "k", config.CollectorUsername, "collector account username")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	feeRate := fs.String("f", config.FeeRate.String(), "transfer fee rate")
	taxRate := fs.String("x", config.TaxRate.String(), "monthly tax rate")
	tokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "token validity (in minutes)")
	storageTimeout := fs.Int("o", int(config.StorageTimeout.Seconds()), "storage timeout (in seconds)")
	fs.BoolVar(&config.TaxSweepEnabled, "w", config.TaxSweepEnabled, "enable monthly tax scheduler")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if rate, err := decimal.NewFromString(*feeRate); err == nil {
		config.FeeRate = rate
	}
	if rate, err := decimal.NewFromString(*taxRate); err == nil {
		config.TaxRate = rate
	}
	config.AccessTokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	config.StorageTimeout = time.Duration(*storageTimeout) * time.Second
}
