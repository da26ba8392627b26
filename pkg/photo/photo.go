// Package photo holds the catalogue data model.
package photo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
	ExifDateFormat = "2006:01:02 15:04:05"
)

// SourceType is the kind of device a photo was taken with. Values are single bits.
type SourceType uint32

const (
	SourceUnknown SourceType = 0
	SourceSLR     SourceType = 1 << 0
	SourcePhone   SourceType = 1 << 1
	SourceCompact SourceType = 1 << 2
	SourceDrone   SourceType = 1 << 3
)

func (s SourceType) String() string {
	switch s {
	case SourceSLR:
		return "slr"
	case SourcePhone:
		return "phone"
	case SourceCompact:
		return "compact"
	case SourceDrone:
		return "drone"
	}
	return "unknown"
}

// SourceTypeMask is a set of source types. The zero mask matches everything.
type SourceTypeMask uint32

// Has returns true if s is in the mask.
func (m SourceTypeMask) Has(s SourceType) bool {
	return uint32(m)&uint32(s) != 0
}

// NewSourceTypeMask builds a mask from individual source types.
func NewSourceTypeMask(ss ...SourceType) SourceTypeMask {
	var m SourceTypeMask
	for _, s := range ss {
		m |= SourceTypeMask(s)
	}
	return m
}

// MakeSourceTypeMask returns the mask for the two source types descriptors commonly use.
func MakeSourceTypeMask(slr bool, drone bool) SourceTypeMask {
	var m SourceTypeMask
	if slr {
		m |= SourceTypeMask(SourceSLR)
	}
	if drone {
		m |= SourceTypeMask(SourceDrone)
	}
	return m
}

// ItemType is the kind of media. Values are single bits.
type ItemType uint32

const (
	ItemUnknown      ItemType = 0
	ItemStill        ItemType = 1 << 0
	ItemMovie        ItemType = 1 << 1
	ItemPanorama     ItemType = 1 << 2
	ItemSpherical360 ItemType = 1 << 3
	ItemTimelapse    ItemType = 1 << 4
)

func (t ItemType) String() string {
	switch t {
	case ItemStill:
		return "still"
	case ItemMovie:
		return "movie"
	case ItemPanorama:
		return "panorama"
	case ItemSpherical360:
		return "spherical360"
	case ItemTimelapse:
		return "timelapse"
	}
	return "unknown"
}

// ItemTypeMask is a set of item types. The zero mask matches everything.
type ItemTypeMask uint32

// Has returns true if t is in the mask.
func (m ItemTypeMask) Has(t ItemType) bool {
	return uint32(m)&uint32(t) != 0
}

// NewItemTypeMask builds a mask from individual item types.
func NewItemTypeMask(ts ...ItemType) ItemTypeMask {
	var m ItemTypeMask
	for _, t := range ts {
		m |= ItemTypeMask(t)
	}
	return m
}

// Permission orders photos by increasing restriction.
type Permission uint8

const (
	Public Permission = iota
	AuthorisedBasic
	AuthorisedAdvanced
	Private
)

func (p Permission) String() string {
	switch p {
	case AuthorisedBasic:
		return "authBasic"
	case AuthorisedAdvanced:
		return "authAdvanced"
	case Private:
		return "private"
	}
	return "public"
}

// VisibleTo returns true if a caller with the given clearance may see a photo with permission p.
func (p Permission) VisibleTo(clearance Permission) bool {
	return p == Public || p <= clearance
}

// ParseSourceType maps a descriptor sourceType value.
func ParseSourceType(s string) SourceType {
	switch s {
	case "slr":
		return SourceSLR
	case "drone":
		return SourceDrone
	case "phone":
		return SourcePhone
	case "compact":
		return SourceCompact
	}
	return SourceUnknown
}

// ParseItemType maps a descriptor itemType value.
func ParseItemType(s string) ItemType {
	if s == "still" {
		return ItemStill
	}
	return ItemUnknown
}

// ParsePermission maps a descriptor permission value. Anything unrecognized is Public.
func ParsePermission(s string) Permission {
	switch s {
	case "authBasic":
		return AuthorisedBasic
	case "authAdvanced":
		return AuthorisedAdvanced
	case "private":
		return Private
	}
	return Public
}

// Photo is an immutable catalogue entry. It is shared by reference across result sets.
type Photo struct {
	ID              uuid.UUID
	Representations Representations

	// Taken is the local time the photo was taken; the zero value means unknown.
	Taken time.Time

	Source     SourceType
	Kind       ItemType
	Permission Permission
	Rating     uint8

	GeoLocationPath string
	Tags            []string
	GeoLocationTags []string
}

// HasTaken returns true if the time taken is known.
func (p *Photo) HasTaken() bool {
	return !p.Taken.IsZero()
}

// Primary returns the full-resolution representation.
func (p *Photo) Primary() Representation {
	if len(p.Representations) == 0 {
		return Representation{}
	}
	return p.Representations[0]
}

// NewID returns a stable identifier for a photo with the given primary relative path.
func NewID(primary string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(primary))
}

// ParseDate parses a descriptor date; the time is set to 01:01:01 local.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateFormat, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d.Add(time.Hour + time.Minute + time.Second), nil
}

// ParseDateTime parses an EXIF-style timestamp, with either ':' or '-' date separators.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.Trim(s, "\x00"))
	for _, layout := range []string{ExifDateFormat, DateTimeFormat} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date time %q: unrecognized format", s)
}

// ParseDimensions parses a "W,H" dimension string.
func ParseDimensions(s string) (uint16, uint16, error) {
	ws, hs, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("dimensions %q: missing ','", s)
	}
	w, err := strconv.ParseUint(strings.TrimSpace(ws), 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.ParseUint(strings.TrimSpace(hs), 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	return uint16(w), uint16(h), nil
}
