package katalog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tstromberg/katalog/pkg/descriptor"
	"github.com/tstromberg/katalog/pkg/photo"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// DefaultWorkers is the descriptor parsing concurrency used when none is configured.
var DefaultWorkers = 4

// Build walks c.Root for descriptor files and returns the resulting catalogue.
// Unreadable files and malformed items are logged and skipped.
func Build(c *Config) (*Catalogue, error) {
	root := filepath.Clean(c.Root)
	klog.Infof("build: looking for photos in %s", root)

	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	paths, err := findDescriptors(root)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	klog.Infof("found %d descriptor files", len(paths))

	b := &builder{root: root, exif: c.Exif, probe: c.ProbeDimensions}
	if b.exif == nil {
		b.exif = GoExif{}
	}

	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	perFile := make([][]*photo.Photo, len(paths))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			perFile[i] = b.loadFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	photos := slices.Concat(perFile...)
	slices.SortStableFunc(photos, func(x, y *photo.Photo) int {
		return x.Taken.Compare(y.Taken)
	})

	klog.Infof("Loaded %d photos...", len(photos))
	return New(root, photos, c.CacheSize), nil
}

type builder struct {
	root  string
	exif  ExifReader
	probe bool
}

func (b *builder) loadFile(path string) []*photo.Photo {
	f, err := descriptor.Load(path)
	if err != nil {
		klog.Warningf("couldn't load descriptor %s: %v", path, err)
		return nil
	}

	dir := filepath.Dir(path)
	var out []*photo.Photo
	for it := range f.Items() {
		if p := b.process(it, dir); p != nil {
			out = append(out, p)
		}
	}
	klog.V(1).Infof("%s: %d of %d items accepted", path, len(out), f.Len())
	return out
}

// relativeTo returns path relative to root when it lies within root, otherwise path unchanged.
func relativeTo(root string, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	if rel == "." {
		return ""
	}
	return rel
}

// process turns one baked descriptor item into a photo, or nil if the item is unusable.
func (b *builder) process(it descriptor.Item, dir string) *photo.Photo {
	if !it.Has("res-0-img") {
		return nil
	}

	base := ""
	if it.Has("basePath") {
		base = it.Get("basePath")
		if base == "." {
			base = dir
		}
		base = relativeTo(b.root, base)
	}

	p := &photo.Photo{
		Source:          photo.ParseSourceType(it.Get("sourceType")),
		Kind:            photo.ParseItemType(it.Get("itemType")),
		Permission:      photo.ParsePermission(it.Get("permission")),
		GeoLocationPath: strings.TrimSpace(it.Get("geoLocationPath")),
		Tags:            descriptor.SplitSet(it.Get("tags")),
		GeoLocationTags: descriptor.SplitSet(it.Get("geoLocationTags")),
	}

	if ds := it.Get("date"); ds != "" {
		d, err := photo.ParseDate(ds)
		if err != nil {
			klog.Warningf("%s: %v", it.Get("res-0-img"), err)
		} else {
			p.Taken = d
		}
	}

	for i := 0; i < photo.MaxRepresentations; i++ {
		key := fmt.Sprintf("res-%d", i)
		if !it.Has(key) {
			break
		}

		img := it.Get(key + "-img")
		if img == "" {
			continue
		}

		rel := filepath.Join(base, img)
		full := rel
		if !filepath.IsAbs(rel) {
			full = filepath.Join(b.root, rel)
		}

		var w, h uint16
		haveDims := false
		if ds := it.Get(key); ds != "" {
			var err error
			w, h, err = photo.ParseDimensions(ds)
			if err != nil {
				klog.Warningf("%s: bad %s: %v", full, key, err)
			} else {
				haveDims = true
			}
		}

		found := exists(full)
		if !found {
			if i == 0 {
				klog.Warningf("primary image %s not found, skipping item", full)
				return nil
			}
			klog.V(1).Infof("image %s not found", full)
		}

		if found && !haveDims && b.probe {
			var err error
			w, h, err = readDimensions(full)
			if err != nil {
				klog.Warningf("unable to read dimensions of %s: %v", full, err)
			}
		}

		if i == 0 {
			b.applyExif(p, full)
		}

		p.Representations = append(p.Representations, photo.NewRepresentation(filepath.ToSlash(rel), w, h))
	}

	if len(p.Representations) == 0 {
		klog.V(1).Infof("%s: no usable representations", it.Get("res-0-img"))
		return nil
	}

	p.ID = photo.NewID(p.Primary().RelPath)
	return p
}

func (b *builder) applyExif(p *photo.Photo, path string) {
	t, ok, err := b.exif.DateTimeDigitized(path)
	if err != nil {
		klog.V(1).Infof("exif: %v", err)
		return
	}
	if ok {
		p.Taken = t
	}
}
