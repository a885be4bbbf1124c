package iso8211

import (
	"github.com/rs/zerolog"
)

// OpenOptions configures how a module is opened.
type OpenOptions struct {
	// Logger receives debug and warning events. Default: disabled.
	Logger zerolog.Logger

	// UseMmap maps the file into memory instead of reading through a file
	// descriptor. Field data is then served without copying and stays valid
	// until Close.
	// Default: false
	UseMmap bool

	// CheckOverlaps rejects records whose directory declares overlapping
	// field spans.
	// Default: true
	CheckOverlaps bool

	// CatalogCache, if set, shares parsed schemas between modules whose
	// header records are byte-identical.
	CatalogCache *CatalogCache
}

// DefaultOpenOptions returns default options.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{
		Logger:        zerolog.Nop(),
		UseMmap:       false,
		CheckOverlaps: true,
		CatalogCache:  nil,
	}
}
