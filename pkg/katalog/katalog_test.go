package katalog

import (
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tstromberg/katalog/pkg/photo"
	"github.com/tstromberg/katalog/pkg/query"
)

// fakeExif returns canned timestamps keyed by file base name.
type fakeExif struct {
	taken map[string]time.Time
	fail  map[string]bool
}

func (f fakeExif) DateTimeDigitized(path string) (time.Time, bool, error) {
	base := filepath.Base(path)
	if f.fail[base] {
		return time.Time{}, false, errors.New("corrupt exif")
	}
	t, ok := f.taken[base]
	return t, ok, nil
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func build(t *testing.T, c *Config) *Catalogue {
	t.Helper()
	if c.Exif == nil {
		c.Exif = fakeExif{}
	}
	cat, err := Build(c)
	require.NoError(t, err)
	return cat
}

func byPath(t *testing.T, c *Catalogue, rel string) *photo.Photo {
	t.Helper()
	for _, p := range c.Photos() {
		if p.Primary().RelPath == rel {
			return p
		}
	}
	t.Fatalf("no photo with primary %q", rel)
	return nil
}

func relPaths(ps []*photo.Photo) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.Primary().RelPath)
	}
	return out
}

func TestBuildOverrides(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	root := t.TempDir()

	writeJPEG(t, filepath.Join(root, "a.jpg"), 100, 50)
	writeJPEG(t, filepath.Join(root, "b.jpg"), 100, 50)
	writeFile(t, filepath.Join(root, "items.txt"),
		"sourceType: slr\n* \n\tres-0-img: a.jpg\n\tres-0: 100,50\nsourceType: drone\n* \n\tres-0-img: b.jpg\n\tres-0: 100,50\n")

	c := build(t, &Config{Root: root})
	req.Len(c.Photos(), 2)
	req.Equal(photo.SourceSLR, byPath(t, c, "a.jpg").Source)
	req.Equal(photo.SourceDrone, byPath(t, c, "b.jpg").Source)

	a := byPath(t, c, "a.jpg")
	req.Equal(photo.Representations{photo.NewRepresentation("a.jpg", 100, 50)}, a.Representations)
	req.Equal(photo.NewID("a.jpg"), a.ID)
	req.False(a.HasTaken())
}

func TestBuildSortsByTimeTaken(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	root := t.TempDir()

	writeJPEG(t, filepath.Join(root, "2020/new.jpg"), 10, 10)
	writeJPEG(t, filepath.Join(root, "2019/old.jpg"), 10, 10)
	writeJPEG(t, filepath.Join(root, "misc/undated.jpg"), 10, 10)
	writeFile(t, filepath.Join(root, "2020/items.txt"), "date: 2020-01-01\n*\n\tres-0-img: 2020/new.jpg\n\tres-0: 10,10\n")
	writeFile(t, filepath.Join(root, "2019/items.txt"), "date: 2019-06-01\n*\n\tres-0-img: 2019/old.jpg\n\tres-0: 10,10\n")
	writeFile(t, filepath.Join(root, "misc/items.txt"), "*\n\tres-0-img: misc/undated.jpg\n\tres-0: 10,10\n")

	c := build(t, &Config{Root: root, Workers: 2})
	req.Equal([]string{"misc/undated.jpg", "2019/old.jpg", "2020/new.jpg"}, relPaths(c.Photos()))

	for i := 1; i < len(c.Photos()); i++ {
		req.False(c.Photos()[i].Taken.Before(c.Photos()[i-1].Taken))
	}

	old := byPath(t, c, "2019/old.jpg")
	req.Equal(time.Date(2019, 6, 1, 1, 1, 1, 0, time.Local), old.Taken)

	rs := c.Query(query.Params{Sort: query.YoungestFirst}, 0)
	req.Equal([]string{"2020/new.jpg", "2019/old.jpg", "misc/undated.jpg"}, relPaths(rs.Photos()))
}

func TestBuildExif(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	root := t.TempDir()

	for _, n := range []string{"exif.jpg", "corrupt.jpg", "plain.jpg"} {
		writeJPEG(t, filepath.Join(root, n), 10, 10)
	}
	writeFile(t, filepath.Join(root, "items.txt"), `date: 2018-05-05
*
	res-0-img: exif.jpg
	res-0: 10,10
*
	res-0-img: corrupt.jpg
	res-0: 10,10
*
	res-0-img: plain.jpg
	res-0: 10,10
`)

	taken := time.Date(2018, 5, 6, 14, 30, 0, 0, time.Local)
	c := build(t, &Config{Root: root, Exif: fakeExif{
		taken: map[string]time.Time{"exif.jpg": taken},
		fail:  map[string]bool{"corrupt.jpg": true},
	}})

	provisional := time.Date(2018, 5, 5, 1, 1, 1, 0, time.Local)
	req.Equal(taken, byPath(t, c, "exif.jpg").Taken)
	req.Equal(provisional, byPath(t, c, "corrupt.jpg").Taken)
	req.Equal(provisional, byPath(t, c, "plain.jpg").Taken)
}

func TestBuildGoExifWithoutMetadata(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	root := t.TempDir()

	writeJPEG(t, filepath.Join(root, "a.jpg"), 10, 10)
	writeFile(t, filepath.Join(root, "items.txt"), "date: 2017-07-07\n*\n\tres-0-img: a.jpg\n\tres-0: 10,10\n")

	c, err := Build(&Config{Root: root, Exif: GoExif{}})
	req.NoError(err)
	req.Len(c.Photos(), 1)
	req.Equal(time.Date(2017, 7, 7, 1, 1, 1, 0, time.Local), c.Photos()[0].Taken)
}

func TestBuildRepresentations(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeJPEG(t, filepath.Join(root, "full.jpg"), 64, 32)
	writeJPEG(t, filepath.Join(root, "half.jpg"), 32, 16)
	writeJPEG(t, filepath.Join(root, "only.jpg"), 20, 10)
	writeJPEG(t, filepath.Join(root, "gap.jpg"), 20, 10)
	writeJPEG(t, filepath.Join(root, "nores.jpg"), 20, 10)
	writeFile(t, filepath.Join(root, "items.txt"), `*
	res-0-img: full.jpg
	res-0: 64,32
	res-1-img: half.jpg
	res-1: 32,16
	res-2-img: missing-thumb.jpg
	res-2: 16,8
*
	res-0-img: gone.jpg
	res-0: 64,32
*
	res-0-img: only.jpg
	res-0: 20,10
*
	res-0-img: gap.jpg
	res-0: 20,10
	res-2-img: full.jpg
	res-2: 64,32
*
	res-0-img: nores.jpg
*
	res-0: 20,10
*
	res-0-img: full.jpg
	res-0: huge,wide
`)

	c := build(t, &Config{Root: root})

	t.Run("missing primary drops the photo", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)
		req.NotContains(relPaths(c.Photos()), "gone.jpg")
		req.NotContains(relPaths(c.Photos()), "nores.jpg")
	})

	t.Run("missing secondary is kept", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)
		var p *photo.Photo
		for _, ph := range c.Photos() {
			if len(ph.Representations) == 3 {
				p = ph
			}
		}
		req.NotNil(p)
		req.Equal(photo.Representations{
			photo.NewRepresentation("full.jpg", 64, 32),
			photo.NewRepresentation("half.jpg", 32, 16),
			photo.NewRepresentation("missing-thumb.jpg", 16, 8),
		}, p.Representations)
	})

	t.Run("single representation", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)
		req.Len(byPath(t, c, "only.jpg").Representations, 1)
	})

	t.Run("gap stops representations", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)
		req.Len(byPath(t, c, "gap.jpg").Representations, 1)
	})

	t.Run("malformed dimensions are zero", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)
		req.Len(c.Photos(), 4)
		zero := 0
		for _, p := range c.Photos() {
			if p.Primary().RelPath == "full.jpg" && p.Primary().Width == 0 {
				zero++
			}
		}
		req.Equal(1, zero)
	})
}

func TestBuildProbeDimensions(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	writeJPEG(t, filepath.Join(root, "a.jpg"), 40, 30)
	writeJPEG(t, filepath.Join(root, "a-small.jpg"), 20, 15)
	writeFile(t, filepath.Join(root, "items.txt"), "*\n\tres-0-img: a.jpg\n\tres-0:\n\tres-1-img: a-small.jpg\n\tres-1:\n")

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)
		c := build(t, &Config{Root: root, ProbeDimensions: true})
		req.Len(c.Photos(), 1)
		req.Equal(photo.Representations{
			photo.NewRepresentation("a.jpg", 40, 30),
			photo.NewRepresentation("a-small.jpg", 20, 15),
		}, c.Photos()[0].Representations)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)
		c := build(t, &Config{Root: root})
		req.Len(c.Photos(), 1)
		req.Equal(uint16(0), c.Photos()[0].Primary().Width)
	})
}

func TestBuildBasePath(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	root := t.TempDir()

	writeJPEG(t, filepath.Join(root, "2020/trip/x.jpg"), 10, 10)
	writeJPEG(t, filepath.Join(root, "2021/y.jpg"), 10, 10)
	writeJPEG(t, filepath.Join(root, "2022/z.jpg"), 10, 10)

	writeFile(t, filepath.Join(root, "2020/trip/items.txt"), "basePath: .\n*\n\tres-0-img: x.jpg\n\tres-0: 10,10\n")
	writeFile(t, filepath.Join(root, "2021/items.txt"),
		"basePath: "+filepath.Join(root, "2021")+"\n*\n\tres-0-img: y.jpg\n\tres-0: 10,10\n")
	writeFile(t, filepath.Join(root, "index/items.txt"), "basePath: 2022\n*\n\tres-0-img: z.jpg\n\tres-0: 10,10\n")

	c := build(t, &Config{Root: root})
	req.ElementsMatch([]string{"2020/trip/x.jpg", "2021/y.jpg", "2022/z.jpg"}, relPaths(c.Photos()))
}

func TestBuildAttributes(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	root := t.TempDir()

	writeJPEG(t, filepath.Join(root, "a.jpg"), 10, 10)
	writeFile(t, filepath.Join(root, "items.txt"), `tags: sea, sky
geoLocationPath: Europe/Greece/Crete
*
	res-0-img: a.jpg
	res-0: 10,10
	tags: boat
	itemType: still
	permission: authAdvanced
	sourceType: compact
`)

	c := build(t, &Config{Root: root})
	p := byPath(t, c, "a.jpg")
	req.Equal([]string{"sea", "sky", "boat"}, p.Tags)
	req.Equal("Europe/Greece/Crete", p.GeoLocationPath)
	req.Equal(photo.ItemStill, p.Kind)
	req.Equal(photo.AuthorisedAdvanced, p.Permission)
	req.Equal(photo.SourceCompact, p.Source)
}

func TestBuildSkipsHiddenAndNonDescriptors(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	root := t.TempDir()

	writeJPEG(t, filepath.Join(root, "a.jpg"), 10, 10)
	item := "*\n\tres-0-img: a.jpg\n\tres-0: 10,10\n"
	writeFile(t, filepath.Join(root, ".hidden/items.txt"), item)
	writeFile(t, filepath.Join(root, "notes.md"), item)
	writeFile(t, filepath.Join(root, "empty.txt"), "")
	writeFile(t, filepath.Join(root, "common-only.txt"), "date: 2020-01-01\n")
	writeFile(t, filepath.Join(root, "deep/er/items.txt"), item)

	c := build(t, &Config{Root: root})
	req.Len(c.Photos(), 1)
	req.Equal(root, c.Root())
}

func TestBuildBadRoot(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	_, err := Build(&Config{Root: filepath.Join(t.TempDir(), "missing")})
	req.Error(err)

	f := filepath.Join(t.TempDir(), "file.txt")
	writeFile(t, f, "")
	_, err = Build(&Config{Root: f})
	req.Error(err)
}

func TestCatalogueQuery(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	root := t.TempDir()

	writeJPEG(t, filepath.Join(root, "public.jpg"), 10, 10)
	writeJPEG(t, filepath.Join(root, "private.jpg"), 10, 10)
	writeFile(t, filepath.Join(root, "items.txt"), `geoLocationPath: Europe/France/Paris
date: 2019-01-01
*
	res-0-img: public.jpg
	res-0: 10,10
permission: private
geoLocationPath: Europe/Italy/Rome
date: 2019-02-01
*
	res-0-img: private.jpg
	res-0: 10,10
`)

	c := build(t, &Config{Root: root, CacheSize: 3})

	pub := c.Query(query.Params{Permission: photo.Public}, query.BuildLocationAccessor)
	req.Equal([]string{"public.jpg"}, relPaths(pub.Photos()))
	req.True(pub.LocationAccessorBuilt())

	all := c.Query(query.Params{Permission: photo.Private}, query.BuildDateAccessor)
	req.Equal([]string{"public.jpg", "private.jpg"}, relPaths(all.Photos()))
	req.Equal([]int{0, 1}, all.DateAccessor().MonthsForYear(2019))
	req.Equal([]string{"France", "Italy"}, all.LocationAccessor().SubLocations("Europe"))

	req.Same(pub, c.Query(query.Params{Permission: photo.Public}, 0))
	req.Equal(2, c.Engine().Len())
}

func TestRelativeTo(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	req.Equal("a/b", relativeTo("/photos", "/photos/a/b"))
	req.Equal("", relativeTo("/photos", "/photos"))
	req.Equal("/photos2/a", relativeTo("/photos", "/photos2/a"))
	req.Equal("2020", relativeTo("/photos", "2020"))
}
