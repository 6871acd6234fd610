package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Content ContentConfig `mapstructure:"content"`
	Player  PlayerConfig  `mapstructure:"player"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds remote API configuration
type APIConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // Lifetime of cached catalog responses
}

// ContentConfig holds viewer preferences
type ContentConfig struct {
	ChildFriendlyOnly bool   `mapstructure:"child_friendly_only"`
	Subtitles         bool   `mapstructure:"subtitles"`        // Fetch closed captions on play
	FeaturedSection   string `mapstructure:"featured_section"` // Section id shown under Featured
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	SubFlag string   `mapstructure:"sub_flag"` // e.g., "--sub-file="
}

// StorageConfig holds local paths
type StorageConfig struct {
	DataDir     string `mapstructure:"data_dir"`     // userdata.db lives here
	SubtitleDir string `mapstructure:"subtitle_dir"` // converted captions are written here
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:  "https://api.curiositystream.com",
			Timeout:  30 * time.Second,
			CacheTTL: 5 * time.Minute,
		},
		Content: ContentConfig{
			ChildFriendlyOnly: false,
			Subtitles:         true,
			FeaturedSection:   "1",
		},
		Player: PlayerConfig{
			Command: "",
			Args:    []string{},
		},
		Storage: StorageConfig{
			DataDir:     defaultDataPath(),
			SubtitleDir: filepath.Join(os.TempDir(), "curio-subs"),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "curio.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "curio")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "curio")
	}
}

// defaultConfigPath returns the default config file directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "curio")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "curio")
	}
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	return Load(defaultConfigPath(), ".")
}

// Load reads config.yaml from the first of paths that has one, applies
// CURIO_* environment overrides and fills the rest from DefaultConfig.
func Load(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides (CURIO_API_BASE_URL, ...)
	v.SetEnvPrefix("CURIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can override it
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.cache_ttl", cfg.API.CacheTTL)

	v.SetDefault("content.child_friendly_only", cfg.Content.ChildFriendlyOnly)
	v.SetDefault("content.subtitles", cfg.Content.Subtitles)
	v.SetDefault("content.featured_section", cfg.Content.FeaturedSection)

	v.SetDefault("player.command", cfg.Player.Command)
	v.SetDefault("player.args", cfg.Player.Args)
	v.SetDefault("player.sub_flag", cfg.Player.SubFlag)

	v.SetDefault("storage.data_dir", cfg.Storage.DataDir)
	v.SetDefault("storage.subtitle_dir", cfg.Storage.SubtitleDir)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}
