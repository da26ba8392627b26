package photo

// MaxRepresentations is the number of resolutions a photo may carry.
const MaxRepresentations = 6

// Representation is one image file at a particular resolution.
type Representation struct {
	RelPath     string
	Width       uint16
	Height      uint16
	AspectRatio float32
}

// NewRepresentation returns a representation with its aspect ratio computed.
func NewRepresentation(relPath string, width, height uint16) Representation {
	r := Representation{RelPath: relPath, Width: width, Height: height}
	if height != 0 {
		r.AspectRatio = float32(width) / float32(height)
	}
	return r
}

// Representations are ordered by decreasing resolution; index 0 is the primary.
type Representations []Representation

// SmallestWithMinDimension returns the smallest representation whose larger side is at least dim.
func (rs Representations) SmallestWithMinDimension(dim uint16) (Representation, bool) {
	best := -1
	for i, r := range rs {
		d := max(r.Width, r.Height)
		if d < dim {
			continue
		}
		if best == -1 || d < max(rs[best].Width, rs[best].Height) {
			best = i
		}
	}
	if best == -1 {
		return Representation{}, false
	}
	return rs[best], true
}

// FirstWithMinDimension returns the first representation whose smaller side is at least dim.
// With fallbackLargest, the representation with the largest smaller side is returned instead of a miss.
func (rs Representations) FirstWithMinDimension(dim uint16, fallbackLargest bool) (Representation, bool) {
	largest := -1
	for i, r := range rs {
		d := min(r.Width, r.Height)
		if d >= dim {
			return r, true
		}
		if d > 0 && (largest == -1 || d > min(rs[largest].Width, rs[largest].Height)) {
			largest = i
		}
	}
	if !fallbackLargest || largest == -1 {
		return Representation{}, false
	}
	return rs[largest], true
}
