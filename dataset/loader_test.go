package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description
s1,Movie,Dark Waters,Todd Haynes,Mark Ruffalo,United States,"March 1, 2021",2019,PG-13,126 min,Dramas,A lawyer uncovers a dark secret.
s2,TV Show,Sacred Games,,Saif Ali Khan,India,"July 6, 2018",2018,TV-MA,2 Seasons,"Crime TV Shows, International TV Shows",A cop chases a gangster across Mumbai.
s3,Movie,My Neighbor Totoro,Hayao Miyazaki,,Japan,,1988,G,86 min,"Children & Family Movies, Anime Features",Two sisters befriend a forest spirit.
`

func writeDataset(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netflix_titles.csv")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write dataset file: %v", err)
	}
	return path
}

func TestLoadDataset(t *testing.T) {
	path := writeDataset(t, sampleCSV)

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}

	if len(table) != 3 {
		t.Fatalf("Expected 3 titles, got %d", len(table))
	}

	movie := table[0]
	if movie.ShowID != "s1" || movie.Type != TypeMovie || movie.Name != "Dark Waters" {
		t.Errorf("Unexpected first record: %+v", movie)
	}
	if !movie.IsMovie {
		t.Error("Expected IsMovie for a Movie record")
	}
	if movie.YearAdded != 2021 || movie.MonthAdded != 3 {
		t.Errorf("Expected date added March 2021, got %d/%d", movie.MonthAdded, movie.YearAdded)
	}
	if movie.DurationValue != 126 || movie.DurationUnit != "min" {
		t.Errorf("Unexpected duration: %d %s", movie.DurationValue, movie.DurationUnit)
	}
	if len(movie.Regions) != 1 || movie.Regions[0] != "North America" {
		t.Errorf("Unexpected regions: %v", movie.Regions)
	}

	show := table[1]
	if show.Type != TypeTVShow || show.IsMovie {
		t.Errorf("Expected a TV Show record, got %+v", show)
	}
	if len(show.Genres) != 2 || show.Genres[0] != "Crime TV Shows" || show.Genres[1] != "International TV Shows" {
		t.Errorf("Expected genres split on comma, got %v", show.Genres)
	}
	if show.DurationValue != 2 || show.DurationUnit != "Seasons" {
		t.Errorf("Unexpected duration: %d %s", show.DurationValue, show.DurationUnit)
	}

	kids := table[2]
	if !kids.IsKids {
		t.Error("Expected G rating to set the kids flag")
	}
	if kids.YearAdded != 0 || !kids.DateAdded.IsZero() {
		t.Errorf("Expected missing date_added to stay unknown, got %v", kids.DateAdded)
	}
	if kids.ReleaseYear != 1988 {
		t.Errorf("Expected release year 1988, got %d", kids.ReleaseYear)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected a *LoadError, got %T", err)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	// Header without the country column
	contents := strings.Replace(sampleCSV, "country,", "", 1)
	path := writeDataset(t, contents)

	table, err := Load(path)
	if err == nil {
		t.Fatal("Expected an error for a missing required column")
	}
	if table != nil {
		t.Errorf("Expected no table on load failure, got %d rows", len(table))
	}

	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected a *LoadError, got %T", err)
	}
}

func TestLoadNormalizesMissingValues(t *testing.T) {
	contents := `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description
s1,Movie,Mystery Film,,,,not a date,not a year,NR,,,
`
	path := writeDataset(t, contents)

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("Expected 1 title, got %d", len(table))
	}

	title := table[0]
	if len(title.Countries) != 1 || title.Countries[0] != Unknown {
		t.Errorf("Expected unknown country sentinel, got %v", title.Countries)
	}
	if len(title.Genres) != 1 || title.Genres[0] != Unknown {
		t.Errorf("Expected unknown genre sentinel, got %v", title.Genres)
	}
	if len(title.Regions) != 1 || title.Regions[0] != "Other" {
		t.Errorf("Expected Other region for unknown country, got %v", title.Regions)
	}
	if title.YearAdded != 0 {
		t.Errorf("Expected unparseable date_added to yield year 0, got %d", title.YearAdded)
	}
	if title.ReleaseYear != 0 {
		t.Errorf("Expected unparseable release_year to yield 0, got %d", title.ReleaseYear)
	}
	if title.DurationValue != 0 || title.DurationUnit != "" {
		t.Errorf("Expected empty duration to stay zero, got %d %s", title.DurationValue, title.DurationUnit)
	}
}

func TestHeaderNormalization(t *testing.T) {
	contents := `Show ID,Type,Title,Director,Cast,Country,Date Added,Release Year,Rating,Duration,Listed In,Description
s1,Movie,Some Film,,,France,"May 5, 2020",2020,PG,90 min,Comedies,
`
	path := writeDataset(t, contents)

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Expected spaced headers to be accepted: %v", err)
	}
	if len(table) != 1 || table[0].ShowID != "s1" {
		t.Fatalf("Unexpected table: %+v", table)
	}
}

func TestSplitList(t *testing.T) {
	values := SplitList("United States, India,  ,Japan")
	if len(values) != 3 {
		t.Fatalf("Expected 3 values, got %v", values)
	}
	if values[0] != "United States" || values[1] != "India" || values[2] != "Japan" {
		t.Errorf("Unexpected values: %v", values)
	}

	unknown := SplitList("  ")
	if len(unknown) != 1 || unknown[0] != Unknown {
		t.Errorf("Expected unknown sentinel for blank cell, got %v", unknown)
	}
}
