// Package config loads katalog settings from a YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/tstromberg/katalog/pkg/katalog"
	"github.com/tstromberg/katalog/pkg/query"
	"gopkg.in/yaml.v3"
)

// ErrNoRoot is returned when no photos root is configured.
var ErrNoRoot = errors.New("photos_base_path is not set")

// Environment variables that override file settings.
const (
	EnvRoot    = "KATALOG_PHOTOS_BASE_PATH"
	EnvWorkers = "KATALOG_WORKERS"
	EnvExif    = "KATALOG_EXIF_BACKEND"
)

// EXIF backends.
const (
	ExifGo       = "goexif"
	ExifExiftool = "exiftool"
)

// Config represents the settings of a katalog deployment.
type Config struct {
	PhotosBasePath   string `yaml:"photos_base_path"`
	Workers          int    `yaml:"workers"`
	CacheSize        int    `yaml:"cache_size"`
	ExifBackend      string `yaml:"exif_backend"`
	ProbeDimensions  bool   `yaml:"probe_dimensions"`
	LazyPhotoLoading bool   `yaml:"lazy_photo_loading"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Workers:          katalog.DefaultWorkers,
		CacheSize:        query.DefaultCacheSize,
		ExifBackend:      ExifGo,
		ProbeDimensions:  true,
		LazyPhotoLoading: true,
	}
}

// Load reads path (if not empty) over the defaults, then applies .env and environment overrides.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("dotenv: %w", err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvRoot); v != "" {
		c.PhotosBasePath = v
	}
	if v := os.Getenv(EnvExif); v != "" {
		c.ExifBackend = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks that the settings can be used to build a catalogue.
func (c *Config) Validate() error {
	if c.PhotosBasePath == "" {
		return ErrNoRoot
	}
	switch c.ExifBackend {
	case "", ExifGo, ExifExiftool:
	default:
		return fmt.Errorf("unknown exif_backend %q", c.ExifBackend)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", c.Workers)
	}
	return nil
}

// Katalog returns the builder configuration. The caller owns closing any exiftool process
// set on the returned config; see Close.
func (c *Config) Katalog() (*katalog.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	kc := &katalog.Config{
		Root:            c.PhotosBasePath,
		Workers:         c.Workers,
		CacheSize:       c.CacheSize,
		ProbeDimensions: c.ProbeDimensions,
		Exif:            katalog.GoExif{},
	}

	if c.ExifBackend == ExifExiftool {
		et, err := katalog.NewExiftool()
		if err != nil {
			return nil, err
		}
		kc.Exif = et
	}
	return kc, nil
}

// Close releases resources held by a builder configuration returned from Katalog.
func Close(kc *katalog.Config) error {
	if et, ok := kc.Exif.(*katalog.Exiftool); ok {
		return et.Close()
	}
	return nil
}
