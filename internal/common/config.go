package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	API     APIConfig     `toml:"api"`
	Guide   GuideConfig   `toml:"guide"`
	Assets  AssetsConfig  `toml:"assets"`
	Map     MapConfig     `toml:"map"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

// APIConfig describes the remote park API
type APIConfig struct {
	BaseURL        string        `toml:"base_url" validate:"required,url"`
	UserAgent      string        `toml:"user_agent" validate:"required"`
	RequestTimeout time.Duration `toml:"request_timeout" validate:"gt=0"`
	RateLimit      int           `toml:"rate_limit" validate:"min=1"` // requests per second, shared by API and image downloads
}

// GuideConfig controls the generated document
type GuideConfig struct {
	Title       string   `toml:"title" validate:"required"`
	ParkCount   int      `toml:"park_count" validate:"min=1"`
	GallerySize int      `toml:"gallery_size" validate:"min=0"`
	Output      string   `toml:"output" validate:"required"`                             // basename, extension added per format
	Formats     []string `toml:"formats" validate:"min=1,dive,oneof=pdf md markdown html"` // pdf, md, html
	Seed        uint64   `toml:"seed"`                                                   // 0 = random
	Offline     bool     `toml:"offline"`                                                // replay cached records instead of calling the API
}

type AssetsConfig struct {
	Dir string `toml:"dir" validate:"required"`
}

// MapConfig controls the static map rendered per park
type MapConfig struct {
	Width        int    `toml:"width" validate:"min=16"`
	Height       int    `toml:"height" validate:"min=16"`
	Zoom         int    `toml:"zoom" validate:"min=0,max=19"`
	MarkerColor  string `toml:"marker_color" validate:"hexcolor"`
	MarkerSize   int    `toml:"marker_size" validate:"min=1"`
	TileURL      string `toml:"tile_url"`       // custom URL pattern, empty = OpenStreetMap
	TileCacheDir string `toml:"tile_cache_dir"` // empty = user cache dir
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Enabled        bool   `toml:"enabled"`
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                              // "stdout", "file"
	Dir    string   `toml:"dir"`                                                 // Log directory when "file" output is enabled
}

// NewDefaultConfig creates a configuration with default values.
// The defaults reproduce the original guide: five parks, six gallery images each.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://mn-state-parks.herokuapp.com/api",
			UserAgent:      "parkguide/" + GetVersion() + " (+https://github.com/ternarybob/parkguide)",
			RequestTimeout: 30 * time.Second,
			RateLimit:      5,
		},
		Guide: GuideConfig{
			Title:       "Minnesota State Park Travel Guide",
			ParkCount:   5,
			GallerySize: 6,
			Output:      "Minnesota_State_Park_Travel_Guide_Final",
			Formats:     []string{"pdf"},
		},
		Assets: AssetsConfig{
			Dir: ".",
		},
		Map: MapConfig{
			Width:       420,
			Height:      300,
			Zoom:        4,
			MarkerColor: "#9400d3", // darkviolet
			MarkerSize:  16,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Enabled: true,
				Path:    "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
			Dir:    "./logs",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. CLI flags are applied afterwards with ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// API configuration
	if baseURL := os.Getenv("PARKGUIDE_API_BASE_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
	if userAgent := os.Getenv("PARKGUIDE_API_USER_AGENT"); userAgent != "" {
		config.API.UserAgent = userAgent
	}
	if timeout := os.Getenv("PARKGUIDE_API_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.API.RequestTimeout = d
		}
	}
	if rateLimit := os.Getenv("PARKGUIDE_API_RATE_LIMIT"); rateLimit != "" {
		if rl, err := strconv.Atoi(rateLimit); err == nil {
			config.API.RateLimit = rl
		}
	}

	// Guide configuration
	if title := os.Getenv("PARKGUIDE_GUIDE_TITLE"); title != "" {
		config.Guide.Title = title
	}
	if count := os.Getenv("PARKGUIDE_GUIDE_PARK_COUNT"); count != "" {
		if c, err := strconv.Atoi(count); err == nil {
			config.Guide.ParkCount = c
		}
	}
	if gallery := os.Getenv("PARKGUIDE_GUIDE_GALLERY_SIZE"); gallery != "" {
		if g, err := strconv.Atoi(gallery); err == nil {
			config.Guide.GallerySize = g
		}
	}
	if output := os.Getenv("PARKGUIDE_GUIDE_OUTPUT"); output != "" {
		config.Guide.Output = output
	}
	if formats := os.Getenv("PARKGUIDE_GUIDE_FORMATS"); formats != "" {
		if list := splitList(formats); len(list) > 0 {
			config.Guide.Formats = list
		}
	}
	if seed := os.Getenv("PARKGUIDE_GUIDE_SEED"); seed != "" {
		if s, err := strconv.ParseUint(seed, 10, 64); err == nil {
			config.Guide.Seed = s
		}
	}
	if offline := os.Getenv("PARKGUIDE_GUIDE_OFFLINE"); offline != "" {
		if o, err := strconv.ParseBool(offline); err == nil {
			config.Guide.Offline = o
		}
	}

	// Assets configuration
	if dir := os.Getenv("PARKGUIDE_ASSETS_DIR"); dir != "" {
		config.Assets.Dir = dir
	}

	// Map configuration
	if tileURL := os.Getenv("PARKGUIDE_MAP_TILE_URL"); tileURL != "" {
		config.Map.TileURL = tileURL
	}
	if cacheDir := os.Getenv("PARKGUIDE_MAP_TILE_CACHE_DIR"); cacheDir != "" {
		config.Map.TileCacheDir = cacheDir
	}

	// Storage configuration
	if badgerPath := os.Getenv("PARKGUIDE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if enabled := os.Getenv("PARKGUIDE_BADGER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Storage.Badger.Enabled = e
		}
	}

	// Logging configuration
	if level := os.Getenv("PARKGUIDE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("PARKGUIDE_LOG_OUTPUT"); output != "" {
		if list := splitList(output); len(list) > 0 {
			config.Logging.Output = list
		}
	}
}

// FlagOverrides carries the command-line values that take precedence over config.
// Zero values leave the config untouched.
type FlagOverrides struct {
	ParkCount int
	Seed      uint64
	Output    string
	Offline   bool
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, flags FlagOverrides) {
	if flags.ParkCount > 0 {
		config.Guide.ParkCount = flags.ParkCount
	}
	if flags.Seed > 0 {
		config.Guide.Seed = flags.Seed
	}
	if flags.Output != "" {
		config.Guide.Output = flags.Output
	}
	if flags.Offline {
		config.Guide.Offline = true
	}
}

// Validate checks the resolved configuration
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Storage.Badger.Enabled && strings.TrimSpace(c.Storage.Badger.Path) == "" {
		return fmt.Errorf("invalid configuration: storage.badger.path is required when storage is enabled")
	}
	if c.Guide.Offline && !c.Storage.Badger.Enabled {
		return fmt.Errorf("invalid configuration: offline mode needs storage.badger.enabled")
	}
	return nil
}

// splitList splits a comma-separated value, dropping empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
