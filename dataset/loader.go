package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadError is the only fatal error of the explorer core: the dataset could
// not be read into a table. It wraps the underlying cause.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load dataset %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrMissingColumn indicates the source is missing a required header column.
var ErrMissingColumn = errors.New("required column missing")

// requiredColumns are the headers the loader refuses to run without.
// director, cast and description are optional free text.
var requiredColumns = []string{
	"show_id",
	"type",
	"title",
	"country",
	"date_added",
	"release_year",
	"rating",
	"duration",
	"listed_in",
}

// Load reads the titles CSV at path into an in-memory Table. The file is
// read fully and closed before returning; failures come back as *LoadError.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	log.Printf("Loaded %d titles from %s", len(table), path)
	return table, nil
}

// Parse reads CSV rows from r into a Table. The first row must be a header
// containing every required column; malformed data rows are skipped.
func Parse(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %v", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[normalizeHeader(h)] = i
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var table Table
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip malformed rows rather than failing the whole load.
			continue
		}
		table = append(table, parseRow(row, index))
	}

	return table, nil
}

// normalizeHeader converts "Listed In" or "listed-in" to "listed_in".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}

func parseRow(row []string, index map[string]int) Title {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	title := Title{
		ShowID:       field("show_id"),
		Type:         field("type"),
		Name:         field("title"),
		Director:     field("director"),
		Cast:         field("cast"),
		Rating:       field("rating"),
		Description:  field("description"),
		DateAddedRaw: field("date_added"),
	}

	title.Countries = SplitList(field("country"))
	title.Genres = SplitList(field("listed_in"))
	title.Regions = RegionsFor(title.Countries)
	title.ReleaseYear = parseReleaseYear(field("release_year"))
	title.DurationValue, title.DurationUnit = ParseDuration(field("duration"))
	title.IsMovie = title.Type == TypeMovie
	title.IsKids = IsKidsRating(title.Rating)

	if added, err := time.Parse("January 2, 2006", title.DateAddedRaw); err == nil {
		title.DateAdded = added
		title.YearAdded = added.Year()
		title.MonthAdded = int(added.Month())
	}

	return title
}

// SplitList splits a comma-separated multi-valued cell ("United States,
// India") into its values, substituting the Unknown sentinel for an empty
// cell so no record carries a null country or genre.
func SplitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{Unknown}
	}

	parts := strings.Split(s, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}

	if len(values) == 0 {
		return []string{Unknown}
	}
	return values
}

// RegionsFor maps a record's countries to the distinct regions they belong
// to, preserving first-seen order.
func RegionsFor(countries []string) []string {
	seen := make(map[string]bool, len(countries))
	var regions []string
	for _, c := range countries {
		region := RegionFor(c)
		if !seen[region] {
			seen[region] = true
			regions = append(regions, region)
		}
	}
	return regions
}

// parseReleaseYear returns 0 for anything that is not a plausible year.
func parseReleaseYear(s string) int {
	year, err := strconv.Atoi(s)
	if err != nil || year <= 0 || year > time.Now().Year() {
		return 0
	}
	return year
}

// ParseDuration splits "90 min" into (90, "min") and "2 Seasons" into
// (2, "Seasons"). Unparseable values yield (0, "").
func ParseDuration(s string) (int, string) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return 0, ""
	}

	value, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ""
	}

	unit := ""
	if len(parts) > 1 {
		unit = strings.Join(parts[1:], " ")
	}
	return value, unit
}
