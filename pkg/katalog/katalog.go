// Package katalog builds an in-memory photo catalogue from a tree of descriptor files.
package katalog

import (
	"github.com/tstromberg/katalog/pkg/photo"
	"github.com/tstromberg/katalog/pkg/query"
)

// Config holds configuration for building a catalogue.
type Config struct {
	// Root is the directory searched for descriptor files; image paths are relative to it.
	Root string

	// Workers is the number of descriptor files processed concurrently.
	Workers int

	// CacheSize is the number of query result sets retained.
	CacheSize int

	// ProbeDimensions reads image headers when a descriptor omits dimensions.
	ProbeDimensions bool

	// Exif extracts capture timestamps. Defaults to a pure-Go reader.
	Exif ExifReader
}

// Catalogue is a read-only, time-ordered set of photos.
type Catalogue struct {
	root   string
	photos []*photo.Photo
	engine *query.Engine
}

// New returns a catalogue over photos, which must already be sorted oldest first.
func New(root string, photos []*photo.Photo, cacheSize int) *Catalogue {
	return &Catalogue{root: root, photos: photos, engine: query.NewEngine(cacheSize)}
}

// Root returns the directory the catalogue was built from.
func (c *Catalogue) Root() string {
	return c.root
}

// Photos returns every photo, oldest first. Callers must not modify the returned slice.
func (c *Catalogue) Photos() []*photo.Photo {
	return c.photos
}

// Query returns a shared, cached result set for q.
func (c *Catalogue) Query(q query.Params, hint query.Hint) *query.ResultSet {
	return c.engine.Results(c.photos, q, hint)
}

// Engine returns the query engine backing the catalogue.
func (c *Catalogue) Engine() *query.Engine {
	return c.engine
}
