// Package query filters and orders catalogue photos into shareable result sets.
package query

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/tstromberg/katalog/pkg/photo"
	"k8s.io/klog/v2"
)

// DefaultCacheSize is the number of result sets an Engine retains.
const DefaultCacheSize = 10

// Stats are cache counters.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Engine answers queries over a sorted photo list, caching recent result sets.
// An Engine is safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	capacity int
	keys     []Params
	results  []*ResultSet
	inserted int

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewEngine returns an Engine retaining up to capacity result sets.
func NewEngine(capacity int) *Engine {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Engine{
		capacity: capacity,
		keys:     make([]Params, 0, capacity),
		results:  make([]*ResultSet, 0, capacity),
	}
}

// Results returns the result set for q over photos, which must be sorted oldest first.
func (e *Engine) Results(photos []*photo.Photo, q Params, hint Hint) *ResultSet {
	rs, ok := e.lookup(q)
	e.count(ok)
	if !ok {
		rs = e.store(q, Run(photos, q))
	}

	if hint&BuildDateAccessor != 0 {
		rs.DateAccessor()
	}
	if hint&BuildLocationAccessor != 0 {
		rs.LocationAccessor()
	}
	return rs
}

// Run filters and orders photos for q without touching any cache.
func Run(photos []*photo.Photo, q Params) *ResultSet {
	var out []*photo.Photo
	for _, p := range photos {
		if q.Matches(p) {
			out = append(out, p)
		}
	}

	if q.Sort == YoungestFirst {
		slices.Reverse(out)
	}

	klog.V(2).Infof("query %+v matched %d of %d photos", q, len(out), len(photos))
	return NewResultSet(out)
}

func (e *Engine) lookup(q Params) (*ResultSet, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.find(q)
}

// find must be called with mu held.
func (e *Engine) find(q Params) (*ResultSet, bool) {
	for i, k := range e.keys {
		if k == q {
			return e.results[i], true
		}
	}
	return nil, false
}

// store caches rs under q, returning whichever result set ends up cached for q.
func (e *Engine) store(q Params, rs *ResultSet) *ResultSet {
	e.mu.Lock()
	defer e.mu.Unlock()

	// another caller may have raced us to the same query
	if existing, ok := e.find(q); ok {
		return existing
	}

	if len(e.keys) < e.capacity {
		e.keys = append(e.keys, q)
		e.results = append(e.results, rs)
	} else {
		slot := e.inserted % e.capacity
		klog.V(2).Infof("evicting cached query %+v from slot %d", e.keys[slot], slot)
		e.keys[slot] = q
		e.results[slot] = rs
	}
	e.inserted++
	return rs
}

func (e *Engine) count(hit bool) {
	if hit {
		e.hits.Add(1)
		return
	}
	e.misses.Add(1)
}

// Len returns the number of cached result sets.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.keys)
}

// Cached returns the cached queries in slot order.
func (e *Engine) Cached() []Params {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.keys)
}

// Stats returns cache hit and miss counts.
func (e *Engine) Stats() Stats {
	return Stats{Hits: e.hits.Load(), Misses: e.misses.Load()}
}
