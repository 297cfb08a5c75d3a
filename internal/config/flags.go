package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a remote API base URL
//	-d local database file path
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sync-interval background sync interval (e.g., "1m", "5m")
//	-retry-backoff-base initial retry spacing for failed mutations
//	-retry-backoff-cap upper bound on the exponential retry spacing
func ParseFlags() *StructuredConfig {
	var serverAddress string
	var databaseDSN string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var retryBackoffBase time.Duration
	var retryBackoffCap time.Duration

	flag.StringVar(&serverAddress, "a", "", "Remote API base URL")
	flag.StringVar(&databaseDSN, "d", "", "Local database file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval (e.g., 1m, 5m)")
	flag.DurationVar(&retryBackoffBase, "retry-backoff-base", 0, "Initial retry spacing for failed mutations")
	flag.DurationVar(&retryBackoffCap, "retry-backoff-cap", 0, "Upper bound on the retry spacing")

	flag.Parse()

	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    serverAddress,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Workers: Workers{
			SyncInterval:     syncInterval,
			RetryBackoffBase: retryBackoffBase,
			RetryBackoffCap:  retryBackoffCap,
		},
		JSONFilePath: jsonConfigPath,
	}
}
