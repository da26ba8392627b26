// katalog builds a photo catalogue from descriptor files and prints a query over it.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"k8s.io/klog/v2"

	"github.com/tstromberg/katalog/pkg/config"
	"github.com/tstromberg/katalog/pkg/katalog"
	"github.com/tstromberg/katalog/pkg/photo"
	"github.com/tstromberg/katalog/pkg/query"
)

var (
	configPath = flag.String("config", "", "Location of YAML configuration file")
	inDir      = flag.String("in", "", "Location of photos root directory (overrides config)")
	exifFlag   = flag.String("exif", "", "EXIF backend: goexif or exiftool (overrides config)")
	view       = flag.String("view", "list", "View to print: list, dates, locations")
	sortFlag   = flag.String("sort", "oldest", "Sort order: oldest or youngest")
	permFlag   = flag.String("permission", "public", "Caller clearance: public, authBasic, authAdvanced, private")
	sources    = flag.String("source", "", "Comma-separated source types to include (slr,phone,compact,drone)")
	kinds      = flag.String("type", "", "Comma-separated item types to include (still)")
	location   = flag.String("location", "", "Location path to list in locations view, e.g. Europe/France")
	year       = flag.Int("year", 0, "Year to list in dates view")
	month      = flag.Int("month", 0, "Month (1-12) to list in dates view; requires --year")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		klog.Exitf("config failed: %v", err)
	}

	if *inDir != "" {
		cfg.PhotosBasePath = *inDir
	}
	if *exifFlag != "" {
		cfg.ExifBackend = *exifFlag
	}

	if cfg.PhotosBasePath == "" {
		klog.Exitf("--in is a required flag")
	}

	kc, err := cfg.Katalog()
	if err != nil {
		klog.Exitf("config failed: %v", err)
	}

	err = run(kc)
	if cerr := config.Close(kc); cerr != nil {
		klog.Warningf("close: %v", cerr)
	}
	if err != nil {
		klog.Exitf("%v", err)
	}
}

func run(kc *katalog.Config) error {
	c, err := katalog.Build(kc)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	q, hint := params()
	rs := c.Query(q, hint)
	klog.Infof("%d of %d photos visible", rs.Len(), len(c.Photos()))

	switch *view {
	case "list":
		printList(os.Stdout, rs.Photos())
	case "dates":
		printDates(os.Stdout, rs.DateAccessor(), *year, *month)
	case "locations":
		printLocations(os.Stdout, rs.LocationAccessor(), *location)
	default:
		return fmt.Errorf("unknown view %q", *view)
	}
	return nil
}

// params converts flags into a query.
func params() (query.Params, query.Hint) {
	q := query.Params{
		Permission: photo.ParsePermission(*permFlag),
	}

	if *sortFlag == "youngest" {
		q.Sort = query.YoungestFirst
	}

	for _, s := range splitFlag(*sources) {
		st := photo.ParseSourceType(s)
		if st == photo.SourceUnknown {
			klog.Warningf("ignoring unknown source type %q", s)
			continue
		}
		q.Sources |= photo.NewSourceTypeMask(st)
	}

	for _, s := range splitFlag(*kinds) {
		it := photo.ParseItemType(s)
		if it == photo.ItemUnknown {
			klog.Warningf("ignoring unknown item type %q", s)
			continue
		}
		q.Kinds |= photo.NewItemTypeMask(it)
	}

	var hint query.Hint
	switch *view {
	case "dates":
		q.Type = query.Year
		hint = query.BuildDateAccessor
	case "locations":
		q.Type = query.Location
		hint = query.BuildLocationAccessor
	}
	return q, hint
}

func splitFlag(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
