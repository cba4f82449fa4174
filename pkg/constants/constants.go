// Package constants provides shared constants used throughout gamecat.
// This includes timeouts, file names, permissions and limits that should be
// consistent between the sync pipeline, the cover resolver and the CLI.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultFetchTimeout is the per-request timeout for storefront pages and images
	DefaultFetchTimeout = 15 * time.Second

	// DefaultPoliteDelay is the minimum spacing between requests to the same host
	DefaultPoliteDelay = 150 * time.Millisecond

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 30 * time.Minute

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// File names inside a game folder.
const (
	// MetaFile holds the persisted metadata record
	MetaFile = "meta.json"

	// SynopsisFile holds the human-editable synopsis
	SynopsisFile = "synopsis.txt"

	// CoverBase is the base name of downloaded cover images
	CoverBase = "cover"

	// DefaultCoverFile is the preferred cover file name
	DefaultCoverFile = "cover.jpg"

	// IndexFile is the default name of the generated site index
	IndexFile = "games.json"
)

// Limit constants define various limits and capacities
const (
	// MaxBodyBytes caps the size of any fetched page or image
	MaxBodyBytes = 20 << 20

	// PageCacheSize is the number of fetched HTML pages kept in memory
	PageCacheSize = 256

	// SimilarityThreshold is the minimum similarity score for a fuzzy name match
	SimilarityThreshold = 0.7
)

// Defaults for outward facing values.
const (
	// DefaultUserAgent identifies gamecat to storefronts
	DefaultUserAgent = "Mozilla/5.0 (compatible; gamecat/1.0; +https://github.com/clockworksproduction/gamecat)"

	// DefaultOutputDir is where game folders are written when nothing else is configured
	DefaultOutputDir = "Game"

	// DefaultImageBase prefixes image paths written into the site index
	DefaultImageBase = "/asset/Game"
)

// ImageExtensions lists the file extensions treated as cover images, in preference order.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
