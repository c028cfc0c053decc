package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	RedisAddress      string
	TicketsAddress    string
	HistoryLimit      int
	CacheTTL          time.Duration
	ReconcileInterval time.Duration
	ReconcileBatch    int
	ReconcileWorkers  int
	ReconcileRepair   bool
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultHistoryLimit      = 100
	defaultCacheTTL          = 5 * time.Minute
	defaultReconcileInterval = time.Minute
	defaultReconcileBatch    = 64
	defaultReconcileWorkers  = 2
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		RedisAddress:      getString(lookup, "REDIS_ADDRESS", ""),
		TicketsAddress:    getString(lookup, "TICKETS_ADDRESS", ""),
		HistoryLimit:      getInt(lookup, "HISTORY_LIMIT", defaultHistoryLimit),
		CacheTTL:          getDuration(lookup, "CACHE_TTL", defaultCacheTTL),
		ReconcileInterval: getDuration(lookup, "RECONCILE_INTERVAL", defaultReconcileInterval),
		ReconcileBatch:    getInt(lookup, "RECONCILE_BATCH", defaultReconcileBatch),
		ReconcileWorkers:  getInt(lookup, "RECONCILE_WORKERS", defaultReconcileWorkers),
		ReconcileRepair:   getBool(lookup, "RECONCILE_REPAIR", false),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("pointsd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		cacheTTLStr          = cfg.CacheTTL.String()
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for the config cache (in-process cache when empty)")
	fs.StringVar(&cfg.TicketsAddress, "tickets", cfg.TicketsAddress, "Base URL of the expense app for ticket context lookups")
	fs.IntVar(&cfg.HistoryLimit, "history-limit", cfg.HistoryLimit, "Default ledger history page size")
	fs.StringVar(&cacheTTLStr, "cache-ttl", cacheTTLStr, "TTL for cached points-system configs")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between ledger/balance drift audits")
	fs.IntVar(&cfg.ReconcileBatch, "reconcile-batch", cfg.ReconcileBatch, "Maximum drifted pairs per audit pass")
	fs.IntVar(&cfg.ReconcileWorkers, "reconcile-workers", cfg.ReconcileWorkers, "Number of concurrent drift workers")
	fs.BoolVar(&cfg.ReconcileRepair, "reconcile-repair", cfg.ReconcileRepair, "Rewrite drifted balances from the ledger")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.CacheTTL, err = time.ParseDuration(cacheTTLStr); err != nil {
		return nil, fmt.Errorf("invalid cache ttl: %w", err)
	}

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.ReconcileBatch <= 0 {
		cfg.ReconcileBatch = defaultReconcileBatch
	}

	if cfg.ReconcileWorkers <= 0 {
		cfg.ReconcileWorkers = defaultReconcileWorkers
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
