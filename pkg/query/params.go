package query

import (
	"github.com/tstromberg/katalog/pkg/photo"
)

// Type is the kind of view a query is issued for. It does not affect filtering.
type Type uint8

const (
	All Type = iota
	Year
	Location
)

// SortOrder is the order photos are returned in.
type SortOrder uint8

const (
	OldestFirst SortOrder = iota
	YoungestFirst
)

// Hint asks the engine to build result set accessors before returning.
type Hint uint32

const (
	BuildDateAccessor Hint = 1 << iota
	BuildLocationAccessor
)

// Params describes a query. Params are comparable and used as cache keys.
type Params struct {
	Type       Type
	Sort       SortOrder
	Sources    photo.SourceTypeMask
	Kinds      photo.ItemTypeMask
	Permission photo.Permission

	// MinRating is carried in the cache key but not consulted when filtering.
	MinRating uint32
}

// Matches returns true if p passes the filters of the query.
func (q Params) Matches(p *photo.Photo) bool {
	if q.Sources != 0 && !q.Sources.Has(p.Source) {
		return false
	}
	if q.Kinds != 0 && !q.Kinds.Has(p.Kind) {
		return false
	}
	return p.Permission.VisibleTo(q.Permission)
}
