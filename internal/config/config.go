// Package config loads litfind settings from a YAML file, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LITFIND_DATA_DIR.
const EnvPrefix = "LITFIND"

// Config holds all settings.
type Config struct {
	// DocumentDir is where downloaded PDFs are stored.
	DocumentDir string `mapstructure:"document_dir" validate:"required"`
	// DataDir holds the catalog and the log file.
	DataDir string `mapstructure:"data_dir" validate:"required"`
	// MaxHits caps the results requested from each source.
	MaxHits int `mapstructure:"max_hits" validate:"min=1,max=1000"`
	// LogLevel is a zerolog level name.
	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn error disabled"`
	// LogFormat is json or console.
	LogFormat string `mapstructure:"log_format" validate:"oneof=json console"`
	ArxivURL  string `mapstructure:"arxiv_url" validate:"required,url"`
	DblpURL   string `mapstructure:"dblp_url" validate:"required,url"`
	UserAgent string `mapstructure:"user_agent" validate:"required"`
}

// Options selects the files Load reads. Empty fields use the defaults.
type Options struct {
	// ConfigFile is an explicit config path; otherwise litfind.yaml is
	// searched in the working directory and the user config directory.
	ConfigFile string
	// EnvFiles are loaded into the environment first. Missing files are
	// ignored.
	EnvFiles []string
}

// Load resolves the configuration and validates it.
func Load(opts Options) (*Config, error) {
	for _, file := range opts.EnvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("litfind")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "litfind"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.DocumentDir = expandHome(cfg.DocumentDir)
	cfg.DataDir = expandHome(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()
	v.SetDefault("document_dir", filepath.Join(home, "Documents", "papers"))
	v.SetDefault("data_dir", defaultDataDir(home))
	v.SetDefault("max_hits", 25)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("arxiv_url", "http://export.arxiv.org/api/query")
	v.SetDefault("dblp_url", "https://dblp.org/search/publ/api")
	v.SetDefault("user_agent", "litfind/1.0 (+https://github.com/csheth/litfind)")
}

func defaultDataDir(home string) string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "litfind")
	}
	return filepath.Join(home, ".local", "share", "litfind")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// LogFile is the log destination of the interactive session.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "litfind.log")
}
