// Package application provides the application interface for gamecat commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be exercised against a Mock with an in-memory filesystem:
//
//	mock := &application.Mock{
//	    FsFunc: func() afero.Fs { return afero.NewMemMapFs() },
//	}
//	cmd := sync.NewCommand(mock)
package application

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/clockworksproduction/gamecat/pkg/covers"
	"github.com/clockworksproduction/gamecat/pkg/sources"
)

// Settings are the configured defaults a command starts from. Flags
// override them.
type Settings struct {
	OutputDir         string
	Sources           []sources.Spec
	Covers            bool
	FetchDescriptions bool
	FetchTimeout      time.Duration
	ImageBase         string
	IndexFile         string
}

// Application provides the application interface that commands need.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Settings returns the configured defaults, with any sources manifest
	// already expanded.
	Settings() (Settings, error)

	// Fs returns the filesystem the output tree and source lists live on.
	Fs() afero.Fs

	// Fetcher returns the HTTP client used for storefront pages and images.
	Fetcher() (covers.Fetcher, error)

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
