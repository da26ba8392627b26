package query

import (
	"maps"
	"slices"

	"github.com/tstromberg/katalog/pkg/photo"
)

// YearMonth identifies a calendar month. Month is 0-based (January is 0).
type YearMonth struct {
	Year  int
	Month int
}

// DateAccessor indexes a result set by year and month. Photos without a time taken are not indexed.
type DateAccessor struct {
	years      []int
	byYear     map[int][]*photo.Photo
	byMonth    map[YearMonth][]*photo.Photo
	yearMonths map[int][]int
}

// NewDateAccessor indexes photos, keeping their relative order within each bucket.
func NewDateAccessor(photos []*photo.Photo) *DateAccessor {
	a := &DateAccessor{
		byYear:     map[int][]*photo.Photo{},
		byMonth:    map[YearMonth][]*photo.Photo{},
		yearMonths: map[int][]int{},
	}

	for _, p := range photos {
		if !p.HasTaken() {
			continue
		}

		ym := YearMonth{Year: p.Taken.Year(), Month: int(p.Taken.Month()) - 1}
		a.byYear[ym.Year] = append(a.byYear[ym.Year], p)

		if _, ok := a.byMonth[ym]; !ok {
			a.yearMonths[ym.Year] = append(a.yearMonths[ym.Year], ym.Month)
		}
		a.byMonth[ym] = append(a.byMonth[ym], p)
	}

	a.years = slices.Sorted(maps.Keys(a.byYear))
	return a
}

// Years returns the years present, ascending.
func (a *DateAccessor) Years() []int {
	return slices.Clone(a.years)
}

// MonthsForYear returns the 0-based months present in year, in order of first appearance.
func (a *DateAccessor) MonthsForYear(year int) []int {
	return slices.Clone(a.yearMonths[year])
}

// PhotosForYear returns the photos taken in year.
func (a *DateAccessor) PhotosForYear(year int) []*photo.Photo {
	return a.byYear[year]
}

// PhotosForMonthYear returns the photos taken in the 0-based month of year.
func (a *DateAccessor) PhotosForMonthYear(year int, month int) []*photo.Photo {
	return a.byMonth[YearMonth{Year: year, Month: month}]
}
