package application

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/clockworksproduction/gamecat/pkg/constants"
	"github.com/clockworksproduction/gamecat/pkg/covers"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	SettingsFunc     func() (Settings, error)
	FsFunc           func() afero.Fs
	FetcherFunc      func() (covers.Fetcher, error)
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Settings returns settings using the mock function or the built-in defaults.
func (m *Mock) Settings() (Settings, error) {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return Settings{
		OutputDir: constants.DefaultOutputDir,
		Covers:    true,
		ImageBase: constants.DefaultImageBase,
		IndexFile: constants.IndexFile,
	}, nil
}

// Fs returns a filesystem using the mock function or a fresh in-memory one.
func (m *Mock) Fs() afero.Fs {
	if m.FsFunc != nil {
		return m.FsFunc()
	}
	return afero.NewMemMapFs()
}

// Fetcher returns a fetcher using the mock function or nil, which disables
// network access.
func (m *Mock) Fetcher() (covers.Fetcher, error) {
	if m.FetcherFunc != nil {
		return m.FetcherFunc()
	}
	return nil, nil
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
