package query

import (
	"maps"
	"slices"
	"strings"

	"github.com/tstromberg/katalog/pkg/photo"
)

// locationNode is one component of a location hierarchy.
type locationNode struct {
	children map[string]int
	photos   []*photo.Photo
}

// LocationAccessor is a prefix tree over "/"-separated geo location paths.
// A photo is listed at every node on its path.
type LocationAccessor struct {
	nodes []locationNode
	top   map[string]int
}

// SplitLocation splits a location path into trimmed components.
func SplitLocation(path string) []string {
	parts := strings.Split(strings.TrimSpace(path), "/")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// NewLocationAccessor indexes photos with a non-empty location path.
func NewLocationAccessor(photos []*photo.Photo) *LocationAccessor {
	a := &LocationAccessor{top: map[string]int{}}

	path := make([]int, 0, 4)
	for _, p := range photos {
		if strings.TrimSpace(p.GeoLocationPath) == "" {
			continue
		}

		path = path[:0]
		level := a.top
		for _, c := range SplitLocation(p.GeoLocationPath) {
			idx, ok := level[c]
			if !ok {
				idx = len(a.nodes)
				a.nodes = append(a.nodes, locationNode{children: map[string]int{}})
				level[c] = idx
			}
			path = append(path, idx)
			level = a.nodes[idx].children
		}

		for _, idx := range path {
			a.nodes[idx].photos = append(a.nodes[idx].photos, p)
		}
	}

	return a
}

func (a *LocationAccessor) find(path string) (*locationNode, bool) {
	var n *locationNode
	level := a.top
	for _, c := range SplitLocation(path) {
		idx, ok := level[c]
		if !ok {
			return nil, false
		}
		n = &a.nodes[idx]
		level = n.children
	}
	return n, n != nil
}

// PhotosForLocation returns the photos at or below path. An empty path returns nil.
func (a *LocationAccessor) PhotosForLocation(path string) []*photo.Photo {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	n, ok := a.find(path)
	if !ok {
		return nil
	}
	return n.photos
}

// SubLocations returns the immediate child names of path, sorted. An empty path returns the top level.
func (a *LocationAccessor) SubLocations(path string) []string {
	if strings.TrimSpace(path) == "" {
		return slices.Sorted(maps.Keys(a.top))
	}
	n, ok := a.find(path)
	if !ok {
		return []string{}
	}
	return slices.Sorted(maps.Keys(n.children))
}
