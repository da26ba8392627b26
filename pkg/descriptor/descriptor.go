// Package descriptor reads the plain-text photo descriptor files found in a catalogue tree.
//
// A descriptor declares common attributes, per-item attributes and overrides that reshape
// the common attributes for every item declared after them:
//
//	# comment
//	sourceType: slr
//	*
//		res-0-img: a.jpg
//		res-0: 100,50
//	sourceType: drone
//	*
//		res-0-img: b.jpg
package descriptor

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"
	"maps"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"k8s.io/klog/v2"
)

// SetKeys are attribute keys whose values accumulate instead of being replaced.
var SetKeys = []string{"tags", "geoLocationTags"}

// Item is a single attribute map. Keys are case-sensitive.
type Item map[string]string

// Has returns true if the key is present.
func (i Item) Has(key string) bool {
	_, ok := i[key]
	return ok
}

// Get returns the value for key, or "" if it is absent.
func (i Item) Get(key string) string {
	return i[key]
}

// Keys returns the keys in lexicographic order.
func (i Item) Keys() []string {
	return slices.Sorted(maps.Keys(i))
}

// entry is one step of the authored order: an item or an override.
type entry struct {
	override bool
	index    int
}

// File is a parsed descriptor, prior to baking.
type File struct {
	Path string

	common    Item
	overrides []Item
	items     []Item
	timeline  []entry
}

// Load parses the descriptor at path. An unreadable file yields an empty File and an error.
func Load(path string) (*File, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return &File{Path: path, common: Item{}}, fmt.Errorf("read: %w", err)
	}
	f := Parse(bytes.NewReader(bs))
	f.Path = path
	return f, nil
}

// Parse reads descriptor lines from r. Malformed lines are skipped with a warning.
func Parse(r io.Reader) *File {
	f := &File{common: Item{}}

	pending := Item{}
	havePending := false
	started := 0

	flush := func() {
		if !havePending {
			return
		}
		f.timeline = append(f.timeline, entry{index: len(f.items)})
		f.items = append(f.items, pending)
		havePending = false
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for s.Scan() {
		n++
		line := strings.TrimSuffix(s.Text(), "\r")

		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !utf8.ValidString(line) {
			klog.Warningf("line %d: not valid UTF-8, skipping", n)
			continue
		}

		switch {
		case strings.HasPrefix(line, "*"):
			started++
			flush()
			pending = Item{}
		case strings.HasPrefix(line, "\t"):
			k, v, ok := splitAttr(line[1:])
			if !ok {
				klog.Warningf("line %d: item attribute %q has no ':', skipping", n, line)
				continue
			}
			if k == "" {
				continue
			}
			pending[k] = v
			havePending = true
		default:
			k, v, ok := splitAttr(line)
			if !ok {
				klog.Warningf("line %d: common attribute %q has no ':', skipping", n, line)
				continue
			}
			if k == "" {
				continue
			}
			if started == 0 {
				f.common[k] = v
				continue
			}
			flush()
			f.timeline = append(f.timeline, entry{override: true, index: len(f.overrides)})
			f.overrides = append(f.overrides, Item{k: v})
		}
	}

	if err := s.Err(); err != nil {
		klog.Warningf("scan stopped after line %d: %v", n, err)
	}

	flush()
	return f
}

func splitAttr(s string) (string, string, bool) {
	k, v, ok := strings.Cut(s, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), true
}

// Common returns a copy of the attributes declared before the first item.
func (f *File) Common() Item {
	return maps.Clone(f.common)
}

// Len returns the number of items the file declares.
func (f *File) Len() int {
	return len(f.items)
}

// Items yields baked items in authored order. Each yielded Item is a fresh map.
func (f *File) Items() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		local := maps.Clone(f.common)
		if local == nil {
			local = Item{}
		}

		for _, e := range f.timeline {
			if e.override {
				maps.Copy(local, f.overrides[e.index])
				continue
			}
			if !yield(bake(local, f.items[e.index])) {
				return
			}
		}
	}
}

// Bake returns every baked item.
func (f *File) Bake() []Item {
	return slices.Collect(f.Items())
}

func bake(common Item, it Item) Item {
	out := maps.Clone(common)
	for k, v := range it {
		if slices.Contains(SetKeys, k) {
			out[k] = CombineSet(out[k], v)
			continue
		}
		out[k] = v
	}
	return out
}

// CombineSet joins two comma-separated token sets.
func CombineSet(existing string, add string) string {
	if existing == "" {
		return add
	}
	if add == "" {
		return existing
	}
	if strings.HasSuffix(existing, ",") {
		return existing + add
	}
	return existing + ", " + add
}

// SplitSet splits a comma-separated token set, dropping empty tokens.
func SplitSet(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
