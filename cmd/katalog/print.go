package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/disiqueira/gotree/v3"

	"github.com/tstromberg/katalog/pkg/photo"
	"github.com/tstromberg/katalog/pkg/query"
)

var listDateFormat = "2006-01-02 15:04"

func printList(w io.Writer, ps []*photo.Photo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAKEN\tSOURCE\tPERMISSION\tSIZE\tLOCATION\tPATH")
	for _, p := range ps {
		taken := "-"
		if p.HasTaken() {
			taken = p.Taken.Format(listDateFormat)
		}
		r := p.Primary()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d\t%s\t%s\n", taken, p.Source, p.Permission, r.Width, r.Height, p.GeoLocationPath, r.RelPath)
	}
	tw.Flush()
}

// printDates prints a year/month summary, or the photos of one year or month. month is 1-based.
func printDates(w io.Writer, a *query.DateAccessor, year int, month int) {
	if year == 0 {
		for _, y := range a.Years() {
			fmt.Fprintf(w, "%d: %d photos\n", y, len(a.PhotosForYear(y)))
			for _, m := range a.MonthsForYear(y) {
				fmt.Fprintf(w, "  %-9s %d\n", time.Month(m+1), len(a.PhotosForMonthYear(y, m)))
			}
		}
		return
	}

	if month == 0 {
		printList(w, a.PhotosForYear(year))
		return
	}
	printList(w, a.PhotosForMonthYear(year, month-1))
}

// printLocations prints the location hierarchy below path, or the photos at path if it is a leaf.
func printLocations(w io.Writer, a *query.LocationAccessor, path string) {
	label := path
	if label == "" {
		label = "locations"
	}

	tree := gotree.New(label)
	addLocations(tree, a, path)
	fmt.Fprint(w, tree.Print())

	if path != "" && len(a.SubLocations(path)) == 0 {
		printList(w, a.PhotosForLocation(path))
	}
}

func addLocations(t gotree.Tree, a *query.LocationAccessor, path string) {
	for _, name := range a.SubLocations(path) {
		child := name
		if path != "" {
			child = strings.Join([]string{path, name}, "/")
		}
		sub := t.Add(fmt.Sprintf("%s (%d)", name, len(a.PhotosForLocation(child))))
		addLocations(sub, a, child)
	}
}
