package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"partnerscout-backend/lib/configutil"
	"partnerscout-backend/lib/ratelimit"
	"partnerscout-backend/lib/restyutil"
	"partnerscout-backend/lib/scrapers/otlas"
	"partnerscout-backend/lib/telemetry"
	"partnerscout-backend/lib/util/serviceutil"
	"partnerscout-backend/services/partnersearch"

	"github.com/spf13/cobra"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "partnerscout-cli",
	Short: "partnerscout-cli searches the SALTO-YOUTH Otlas platform for project partners.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Config tunes the platform client. it is read from partnerscout.json5
// in the working directory, a missing file keeps every default.
type Config struct {
	BaseUrl           string `json:"base_url"`
	UserAgent         string `json:"user_agent"`
	TimeoutSec        int    `json:"timeout_sec"`
	MaxRetries        int    `json:"max_retries"`
	BackoffBaseMs     int    `json:"backoff_base_ms"`
	BackoffCapMs      int    `json:"backoff_cap_ms"`
	RequestDelayMs    int    `json:"request_delay_ms"`
	MaxConcurrent     int    `json:"max_concurrent"`
	AcquireTimeoutSec int    `json:"acquire_timeout_sec"`
	MaxResults        int    `json:"max_results"`
	CacheTtlSec       int    `json:"cache_ttl_sec"`
	// DebugHttpDir dumps a transcript of every platform exchange into
	// this directory when set.
	DebugHttpDir string `json:"debug_http_dir"`
}

func newService() *partnersearch.Service {
	cfg, err := configutil.ReadConfig[Config]("partnerscout.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}

	options := otlas.ClientOptions{
		BaseUrl:    cfg.BaseUrl,
		UserAgent:  cfg.UserAgent,
		Timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
		MaxResults: cfg.MaxResults,
		Retry: otlas.RetryPolicy{
			MaxRetries:  cfg.MaxRetries,
			BackoffBase: time.Duration(cfg.BackoffBaseMs) * time.Millisecond,
			BackoffCap:  time.Duration(cfg.BackoffCapMs) * time.Millisecond,
		},
	}
	if cfg.DebugHttpDir != "" {
		options.DebugOutput = restyutil.NewFilesystemOutput(cfg.DebugHttpDir)
	}
	if cfg.RequestDelayMs > 0 || cfg.MaxConcurrent > 0 || cfg.AcquireTimeoutSec > 0 {
		interval := otlas.DefaultRequestInterval
		if cfg.RequestDelayMs > 0 {
			interval = time.Duration(cfg.RequestDelayMs) * time.Millisecond
		}
		concurrent := otlas.DefaultMaxConcurrent
		if cfg.MaxConcurrent > 0 {
			concurrent = cfg.MaxConcurrent
		}
		options.Limiter = ratelimit.NewLimiter(ratelimit.Options{
			Interval:       interval,
			MaxConcurrent:  concurrent,
			AcquireTimeout: time.Duration(cfg.AcquireTimeoutSec) * time.Second,
		})
	}

	client, err := otlas.NewClient(options)
	if err != nil {
		serviceutil.Fatal("failed to initialize search client", err)
	}

	return partnersearch.NewService(partnersearch.Options{
		Client:   client,
		CacheTTL: time.Duration(cfg.CacheTtlSec) * time.Second,
	})
}
