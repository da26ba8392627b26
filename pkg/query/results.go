package query

import (
	"sync"
	"sync/atomic"

	"github.com/tstromberg/katalog/pkg/photo"
)

// ResultSet is an immutable list of photos with lazily built date and location indices.
// It is safe for concurrent use.
type ResultSet struct {
	photos []*photo.Photo

	mu        sync.Mutex
	dateBuilt atomic.Bool
	dates     *DateAccessor
	locBuilt  atomic.Bool
	locations *LocationAccessor
}

// NewResultSet wraps photos. The slice must not be modified afterwards.
func NewResultSet(photos []*photo.Photo) *ResultSet {
	return &ResultSet{photos: photos}
}

// Photos returns the matching photos. Callers must not modify the returned slice.
func (r *ResultSet) Photos() []*photo.Photo {
	return r.photos
}

// Len returns the number of photos.
func (r *ResultSet) Len() int {
	return len(r.photos)
}

// DateAccessor returns the date index, building it on first use.
func (r *ResultSet) DateAccessor() *DateAccessor {
	if r.dateBuilt.Load() {
		return r.dates
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dateBuilt.Load() {
		r.dates = NewDateAccessor(r.photos)
		r.dateBuilt.Store(true)
	}
	return r.dates
}

// LocationAccessor returns the location index, building it on first use.
func (r *ResultSet) LocationAccessor() *LocationAccessor {
	if r.locBuilt.Load() {
		return r.locations
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.locBuilt.Load() {
		r.locations = NewLocationAccessor(r.photos)
		r.locBuilt.Store(true)
	}
	return r.locations
}

// DateAccessorBuilt returns true once the date index exists.
func (r *ResultSet) DateAccessorBuilt() bool {
	return r.dateBuilt.Load()
}

// LocationAccessorBuilt returns true once the location index exists.
func (r *ResultSet) LocationAccessorBuilt() bool {
	return r.locBuilt.Load()
}
