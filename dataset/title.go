package dataset

import "time"

// Content type values as they appear in the dataset.
const (
	TypeMovie  = "Movie"
	TypeTVShow = "TV Show"
)

// Unknown is the sentinel used for absent country/genre values so downstream
// filtering and grouping never see empty strings.
const Unknown = "Unknown"

// Title is one catalog row, normalized at load time.
type Title struct {
	ShowID      string   `json:"show_id"`
	Type        string   `json:"type"` // "Movie" or "TV Show"
	Name        string   `json:"title"`
	Director    string   `json:"director,omitempty"`
	Cast        string   `json:"cast,omitempty"`
	Countries   []string `json:"countries"`
	Genres      []string `json:"genres"`
	Regions     []string `json:"regions"`
	ReleaseYear int      `json:"release_year"` // 0 when unknown
	Rating      string   `json:"rating"`
	Description string   `json:"description,omitempty"`

	// Parsed from the raw "date_added" column. DateAdded is the zero time
	// and YearAdded/MonthAdded are 0 when the value was missing or malformed.
	DateAdded    time.Time `json:"date_added,omitempty"`
	DateAddedRaw string    `json:"date_added_raw,omitempty"`
	YearAdded    int       `json:"year_added"`
	MonthAdded   int       `json:"month_added"`

	// Parsed from the raw "duration" column, e.g. "90 min" or "2 Seasons".
	DurationValue int    `json:"duration_value"`
	DurationUnit  string `json:"duration_unit"`

	IsMovie bool `json:"is_movie"`
	IsKids  bool `json:"is_kids"`
}

// Table is the immutable in-memory catalog. It is loaded once, shared
// read-only afterwards, and never mutated; filtering produces new tables.
type Table []Title

var kidsRatings = map[string]bool{
	"TV-Y":  true,
	"TV-Y7": true,
	"TV-G":  true,
	"G":     true,
	"PG":    true,
	"TV-PG": true,
}

// IsKidsRating reports whether a content rating is considered kid-friendly.
func IsKidsRating(rating string) bool {
	return kidsRatings[rating]
}

var regionMap = map[string]string{
	"United States":  "North America",
	"India":          "Asia",
	"United Kingdom": "Europe",
	"Japan":          "Asia",
	"Canada":         "North America",
	"France":         "Europe",
	"Germany":        "Europe",
	"Spain":          "Europe",
	"South Korea":    "Asia",
	"Brazil":         "South America",
}

// RegionFor maps a producing country to its region. Countries outside the
// top-producer map fall into "Other".
func RegionFor(country string) string {
	if region, ok := regionMap[country]; ok {
		return region
	}
	return "Other"
}
