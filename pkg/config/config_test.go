package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tstromberg/katalog/pkg/katalog"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	c := Default()
	req.Equal(10, c.CacheSize)
	req.Equal(ExifGo, c.ExifBackend)
	req.True(c.ProbeDimensions)
	req.ErrorIs(c.Validate(), ErrNoRoot)
}

func TestLoad(t *testing.T) {
	req := require.New(t)

	p := filepath.Join(t.TempDir(), "katalog.yaml")
	req.NoError(os.WriteFile(p, []byte(`photos_base_path: /srv/photos
workers: 2
cache_size: 5
probe_dimensions: false
`), 0o644))

	t.Setenv(EnvRoot, "")
	t.Setenv(EnvWorkers, "")
	t.Setenv(EnvExif, "")

	c, err := Load(p)
	req.NoError(err)
	req.Equal("/srv/photos", c.PhotosBasePath)
	req.Equal(2, c.Workers)
	req.Equal(5, c.CacheSize)
	req.False(c.ProbeDimensions)
	req.Equal(ExifGo, c.ExifBackend)

	kc, err := c.Katalog()
	req.NoError(err)
	req.Equal("/srv/photos", kc.Root)
	req.Equal(5, kc.CacheSize)
	req.IsType(katalog.GoExif{}, kc.Exif)
	req.NoError(Close(kc))
}

func TestLoadEnvOverrides(t *testing.T) {
	req := require.New(t)

	t.Setenv(EnvRoot, "/from/env")
	t.Setenv(EnvWorkers, "7")
	t.Setenv(EnvExif, "")

	c, err := Load("")
	req.NoError(err)
	req.Equal("/from/env", c.PhotosBasePath)
	req.Equal(7, c.Workers)
	req.NoError(c.Validate())
}

func TestLoadErrors(t *testing.T) {
	req := require.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	req.Error(err)

	p := filepath.Join(t.TempDir(), "bad.yaml")
	req.NoError(os.WriteFile(p, []byte("workers: [1, 2\n"), 0o644))
	_, err = Load(p)
	req.Error(err)

	t.Setenv(EnvWorkers, "many")
	_, err = Load("")
	req.Error(err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	c := Default()
	c.PhotosBasePath = "/photos"
	req.NoError(c.Validate())

	c.ExifBackend = "magic"
	req.Error(c.Validate())
	_, err := c.Katalog()
	req.Error(err)

	c.ExifBackend = ExifGo
	c.Workers = -1
	req.Error(c.Validate())
}
