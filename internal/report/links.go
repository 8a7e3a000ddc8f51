package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hyperifyio/reportfinder/internal/lookup"
)

// Link is one entry of the published list.
type Link struct {
	Title string
	URL   string
}

// ReadLinks reads a result CSV of either shape, drops rows without a report
// URL and returns the rest sorted by title.
func ReadLinks(path string) ([]Link, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, errors.New("result csv is empty")
	}
	titleCol, urlCol := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case "Title":
			titleCol = i
		case "ReportURL", "Harradine":
			urlCol = i
		}
	}
	if titleCol < 0 || urlCol < 0 {
		return nil, errors.New("result csv needs Title and ReportURL (or Harradine) columns")
	}
	var links []Link
	for _, row := range rows[1:] {
		if titleCol >= len(row) || urlCol >= len(row) {
			continue
		}
		u := strings.TrimSpace(row[urlCol])
		if u == "" || u == lookup.Unknown {
			continue
		}
		links = append(links, Link{Title: row[titleCol], URL: u})
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].Title != links[j].Title {
			return links[i].Title < links[j].Title
		}
		return links[i].URL < links[j].URL
	})
	return links, nil
}
