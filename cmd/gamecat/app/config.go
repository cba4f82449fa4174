package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/clockworksproduction/gamecat/pkg/constants"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/sources"
)

// EnvPrefix is prepended to every configuration environment variable.
const EnvPrefix = "GAMECAT"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Output tree and sources
	OutputDir       string
	Sources         []sources.Spec
	SourcesManifest string

	// Sync behaviour
	Covers            bool
	FetchDescriptions bool

	// Network
	FetchTimeout  time.Duration
	PoliteDelay   time.Duration
	UserAgent     string
	PageCacheSize int

	// Index
	ImageBase string
	IndexFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (GAMECAT_*)
// 3. .env files
// 4. Config file (--config, or .gamecat.yaml in the home or working directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", fmt.Sprintf("cannot read %s", configFile), err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".gamecat")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "cannot read .gamecat.yaml", err)
			}
		}
	}

	specs, err := decodeSources(v.Get("sources"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		OutputDir:       v.GetString("output_dir"),
		Sources:         specs,
		SourcesManifest: v.GetString("sources_manifest"),

		Covers:            v.GetBool("covers"),
		FetchDescriptions: v.GetBool("fetch_descriptions"),

		FetchTimeout:  v.GetDuration("fetch_timeout"),
		PoliteDelay:   v.GetDuration("polite_delay"),
		UserAgent:     v.GetString("user_agent"),
		PageCacheSize: v.GetInt("page_cache_size"),

		ImageBase: v.GetString("image_base"),
		IndexFile: v.GetString("index_file"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", constants.DefaultOutputDir)
	v.SetDefault("covers", true)
	v.SetDefault("fetch_descriptions", false)
	v.SetDefault("fetch_timeout", constants.DefaultFetchTimeout)
	v.SetDefault("polite_delay", constants.DefaultPoliteDelay)
	v.SetDefault("user_agent", constants.DefaultUserAgent)
	v.SetDefault("page_cache_size", constants.PageCacheSize)
	v.SetDefault("image_base", constants.DefaultImageBase)
	v.SetDefault("index_file", constants.IndexFile)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.NewConfigError("output_dir", "output directory must not be empty", nil)
	}
	if c.FetchTimeout < 0 {
		return errors.NewConfigError("fetch_timeout", "timeout must be non-negative", nil)
	}
	if c.PoliteDelay < 0 {
		return errors.NewConfigError("polite_delay", "delay must be non-negative", nil)
	}
	if c.PageCacheSize < 0 {
		return errors.NewConfigError("page_cache_size", "cache size must be non-negative", nil)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// decodeSources accepts the sources key as a list of {id, path} maps, a list
// of "id=path" strings, or a single comma separated string from the
// environment.
func decodeSources(raw any) ([]sources.Spec, error) {
	var items []any
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' }) {
			items = append(items, part)
		}
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []any:
		items = v
	default:
		return nil, errors.NewConfigError("sources", fmt.Sprintf("unsupported value of type %T", raw), nil)
	}

	specs := make([]sources.Spec, 0, len(items))
	for i, item := range items {
		spec, err := decodeSource(item)
		if err != nil {
			return nil, errors.NewConfigError("sources", fmt.Sprintf("entry %d", i), err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func decodeSource(item any) (sources.Spec, error) {
	switch v := item.(type) {
	case string:
		return sources.ParseSpec(v)
	case map[string]any:
		path := strings.TrimSpace(fmt.Sprint(valueOr(v["path"], "")))
		if path == "" {
			return sources.Spec{}, errors.NewValidationError("path", v, "source entry without a path")
		}
		id := strings.TrimSpace(fmt.Sprint(valueOr(v["id"], "")))
		if id == "" {
			return sources.Spec{ID: sources.IDFromPath(path), Path: path}, nil
		}
		return sources.Spec{ID: sources.ID(id), Path: path}, nil
	default:
		return sources.Spec{}, errors.NewValidationError("source", item, "expected id=path or {id, path}")
	}
}

func valueOr(v, fallback any) any {
	if v == nil {
		return fallback
	}
	return v
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
