package katalog

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/tstromberg/katalog/pkg/photo"
	"k8s.io/klog/v2"
)

// ExifReader extracts the capture time of an image. ok is false when the image carries none.
type ExifReader interface {
	DateTimeDigitized(path string) (t time.Time, ok bool, err error)
}

// GoExif reads EXIF data in-process.
type GoExif struct{}

// DateTimeDigitized implements ExifReader.
func (GoExif) DateTimeDigitized(path string) (time.Time, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decode %q: %w", path, err)
	}

	tag, err := x.Get(exif.DateTimeDigitized)
	if err != nil {
		klog.V(2).Infof("no DateTimeDigitized in %s: %v", path, err)
		return time.Time{}, false, nil
	}

	s, err := tag.StringVal()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("DateTimeDigitized: %w", err)
	}

	t, err := photo.ParseDateTime(s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Exiftool reads EXIF data through an exiftool subprocess.
type Exiftool struct {
	mu sync.Mutex
	et *exiftool.Exiftool
}

// NewExiftool starts exiftool. Close must be called when done.
func NewExiftool() (*Exiftool, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &Exiftool{et: et}, nil
}

// DateTimeDigitized implements ExifReader. exiftool names the tag CreateDate.
func (e *Exiftool) DateTimeDigitized(path string) (time.Time, bool, error) {
	e.mu.Lock()
	fis := e.et.ExtractMetadata(path)
	e.mu.Unlock()

	if len(fis) == 0 {
		return time.Time{}, false, fmt.Errorf("extract %q: no metadata", path)
	}
	fi := fis[0]
	if fi.Err != nil {
		return time.Time{}, false, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	for k, v := range fi.Fields {
		klog.V(3).Infof("%q=%v", k, v)
	}

	ds, err := fi.GetString("CreateDate")
	if err != nil {
		klog.V(2).Infof("unable to get create date for %s: %v", path, err)
		return time.Time{}, false, nil
	}

	t, err := photo.ParseDateTime(ds)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Close stops the exiftool subprocess.
func (e *Exiftool) Close() error {
	return e.et.Close()
}
