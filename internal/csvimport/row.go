// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package csvimport

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danw628/cinelog/internal/models"
)

// Column names of the IMDb ratings export. The export also carries
// Original Title, Title Type, and Release Date; those are accepted in the
// header but not stored because the movie row has no home for them.
const (
	colConst      = "Const"
	colYourRating = "Your Rating"
	colDateRated  = "Date Rated"
	colTitle      = "Title"
	colIMDbRating = "IMDb Rating"
	colRuntime    = "Runtime (mins)"
	colYear       = "Year"
	colGenres     = "Genres"
	colNumVotes   = "Num Votes"
	colDirectors  = "Directors"
)

// requiredColumns must all be present in the header or the run fails
// before any row is touched.
var requiredColumns = []string{colConst, colYourRating, colTitle, colYear}

const dateRatedLayout = "2006-01-02"

// header maps export column names to field positions.
type header map[string]int

// parseHeader indexes the header row and checks the required columns.
// IMDb serves the export with a UTF-8 BOM, which would otherwise glue
// itself to the first column name.
func parseHeader(fields []string) (header, error) {
	h := make(header, len(fields))
	for i, name := range fields {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		h[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := h[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv is missing required columns: %s", strings.Join(missing, ", "))
	}
	return h, nil
}

// row is one export record addressed by column name. Missing trailing
// cells read as empty strings.
type row struct {
	header header
	fields []string
}

func (r row) get(name string) string {
	idx, ok := r.header[name]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

// record is the parsed form of one export row.
type record struct {
	movie     *models.Movie
	rating    *models.UserRating // nil when Your Rating does not parse
	directors []string
}

// parseRecord maps a row to a movie plus optional rating. It returns
// ok=false when the row cannot become a movie at all (no usable title or
// year); a bad rating value only drops the rating.
func parseRecord(r row) (*record, bool) {
	title := r.get(colTitle)
	year, err := strconv.Atoi(r.get(colYear))
	if title == "" || err != nil || year <= 0 {
		return nil, false
	}

	m := &models.Movie{
		ImdbID: r.get(colConst),
		Title:  title,
		Year:   year,
		Genres: splitAndTrim(r.get(colGenres)),
	}
	if v, err := strconv.ParseFloat(r.get(colIMDbRating), 64); err == nil {
		m.ImdbRating = &v
	}
	if v, err := strconv.Atoi(strings.ReplaceAll(r.get(colNumVotes), ",", "")); err == nil && v >= 0 {
		m.ImdbVotes = &v
	}
	if v, err := strconv.Atoi(r.get(colRuntime)); err == nil && v > 0 {
		m.RuntimeMinutes = &v
	}

	directors := splitAndTrim(r.get(colDirectors))
	if len(directors) > 0 {
		m.Director = directors[0]
	}

	return &record{movie: m, rating: parseRating(r), directors: directors}, true
}

// parseRating reads Your Rating and Date Rated. Export ratings are whole
// numbers from 1 to 10; anything else is treated as absent. A missing or
// malformed date falls back to the import time.
func parseRating(r row) *models.UserRating {
	value, err := strconv.Atoi(r.get(colYourRating))
	if err != nil || value < 1 || value > 10 {
		return nil
	}
	rating := &models.UserRating{Rating: float64(value)}
	if t, err := time.Parse(dateRatedLayout, r.get(colDateRated)); err == nil {
		rating.RatedAt = t
	} else {
		rating.RatedAt = time.Now().UTC()
	}
	return rating
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
