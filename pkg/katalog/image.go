package katalog

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
)

// readDimensions returns the dimensions of an image without decoding its pixels.
func readDimensions(path string) (uint16, uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	ic, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to decode: %w", err)
	}

	if ic.Width > math.MaxUint16 || ic.Height > math.MaxUint16 {
		return 0, 0, fmt.Errorf("%dx%d exceeds maximum dimensions", ic.Width, ic.Height)
	}

	return uint16(ic.Width), uint16(ic.Height), nil
}

func exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
