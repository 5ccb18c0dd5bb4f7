// -----------------------------------------------------------------------
// Last Modified: Monday, 19th October 2026 3:05:12 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/parkguide/internal/app"
	"github.com/ternarybob/parkguide/internal/common"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	parkCount    = flag.Int("count", 0, "Number of parks in the guide (overrides config)")
	seed         = flag.Uint64("seed", 0, "Random seed for park selection, 0 = random (overrides config)")
	output       = flag.String("out", "", "Output file name without extension (overrides config)")
	offline      = flag.Bool("offline", false, "Build from cached park records and images already on disk")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	os.Exit(run())
}

func run() int {
	defer common.RecoverWithCrashFile()

	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Park Guide version %s\n", common.GetFullVersion())
		return 0
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Validate
	// 4. Initialize logger
	// 5. Print banner

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		// Check current directory first
		if _, err := os.Stat("parkguide.toml"); err == nil {
			configFiles = append(configFiles, "parkguide.toml")
		} else if _, err := os.Stat("deployments/local/parkguide.toml"); err == nil {
			// Fallback: check deployments/local for users running from project root
			configFiles = append(configFiles, "deployments/local/parkguide.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		// Use temporary logger for startup errors
		arbor.NewLogger().Error().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		return 1
	}

	common.ApplyFlagOverrides(config, common.FlagOverrides{
		ParkCount: *parkCount,
		Seed:      *seed,
		Output:    *output,
		Offline:   *offline,
	})

	if err := config.Validate(); err != nil {
		arbor.NewLogger().Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	logger := common.InitLogger(config)
	common.InstallCrashHandler(config.Logging.Dir)
	common.PrintBanner(common.GetVersion())

	logger.Debug().
		Str("api", config.API.BaseURL).
		Str("assets", config.Assets.Dir).
		Str("badger_path", config.Storage.Badger.Path).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Msg("Resolved configuration")

	logger.Info().
		Strs("config_files", configFiles).
		Int("parks", config.Guide.ParkCount).
		Str("output", config.Guide.Output).
		Msg("Application configuration loaded")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		return 1
	}
	defer application.Close()

	// Ctrl+C cancels in-flight requests; nothing is saved after a cancel
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := application.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Park guide generation failed")
		return 1
	}

	for _, path := range result.Outputs {
		fmt.Println(path)
	}
	return 0
}
