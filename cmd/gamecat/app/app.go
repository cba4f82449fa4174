// Package app provides the application context and dependency management
// for the gamecat CLI. It centralizes configuration, logging and the shared
// HTTP client, and hands them to commands through application.Application.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/clockworksproduction/gamecat/internal/cmd/application"
	"github.com/clockworksproduction/gamecat/internal/transport"
	"github.com/clockworksproduction/gamecat/pkg/covers"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/sources"
)

// App represents the gamecat application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	fs     afero.Fs

	// HTTP client (lazy-initialized, shared by every command in a run)
	mu      sync.Mutex
	fetcher covers.Fetcher
	client  *transport.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		fs:      afero.NewOsFs(),
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, possibly empty.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Fs returns the filesystem commands read and write.
func (a *App) Fs() afero.Fs {
	return a.fs
}

// Settings returns the configured defaults. Sources from the manifest come
// first, followed by sources listed directly in the config.
func (a *App) Settings() (application.Settings, error) {
	specs := make([]sources.Spec, 0, len(a.config.Sources))
	if a.config.SourcesManifest != "" {
		manifest, err := sources.LoadManifest(a.fs, a.config.SourcesManifest)
		if err != nil {
			return application.Settings{}, errors.NewConfigError("sources_manifest", a.config.SourcesManifest, err)
		}
		specs = append(specs, manifest...)
	}
	specs = append(specs, a.config.Sources...)

	return application.Settings{
		OutputDir:         a.config.OutputDir,
		Sources:           specs,
		Covers:            a.config.Covers,
		FetchDescriptions: a.config.FetchDescriptions,
		FetchTimeout:      a.config.FetchTimeout,
		ImageBase:         a.config.ImageBase,
		IndexFile:         a.config.IndexFile,
	}, nil
}

// Fetcher returns the shared HTTP client, creating it on first use.
func (a *App) Fetcher() (covers.Fetcher, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fetcher != nil {
		return a.fetcher, nil
	}

	client, err := transport.New(
		transport.WithTimeout(a.config.FetchTimeout),
		transport.WithPoliteDelay(a.config.PoliteDelay),
		transport.WithUserAgent(a.config.UserAgent),
		transport.WithPageCacheSize(a.config.PageCacheSize),
	)
	if err != nil {
		return nil, errors.WrapResource("create", "http client", "", err)
	}
	a.client = client
	a.fetcher = client
	return client, nil
}

// Shutdown releases resources held by the application.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		a.client.CloseIdleConnections()
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		logger := NewLogger(config)
		a.logger = &logger
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithFs sets the filesystem (useful for testing).
func WithFs(fs afero.Fs) Option {
	return func(a *App) error {
		a.fs = fs
		return nil
	}
}

// WithFetcher sets the HTTP fetcher (useful for testing).
func WithFetcher(fetcher covers.Fetcher) Option {
	return func(a *App) error {
		a.fetcher = fetcher
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
