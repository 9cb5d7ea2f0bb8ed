package query

import (
	"sort"
	"strconv"

	"netflix-explorer/dataset"
)

// GroupKey names an attribute titles can be grouped by.
type GroupKey string

const (
	ByType        GroupKey = "type"
	ByGenre       GroupKey = "genre"
	ByCountry     GroupKey = "country"
	ByRegion      GroupKey = "region"
	ByRating      GroupKey = "rating"
	ByReleaseYear GroupKey = "release_year"
	ByYearAdded   GroupKey = "year_added"
)

// Bucket is one (key, count) pair of a summary view.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Overview is the headline summary of a (filtered) table.
type Overview struct {
	Total   int `json:"total"`
	Movies  int `json:"movies"`
	TVShows int `json:"tv_shows"`
}

// YearCount is a per-year data point of a time series.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// YearTypeCount is one cell of the year-added x content-type cross-tab.
type YearTypeCount struct {
	Year  int    `json:"year"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// YearShare is the movie/TV split of the titles added in one year.
type YearShare struct {
	Year        int     `json:"year"`
	MovieShare  float64 `json:"movie_share"`
	TVShowShare float64 `json:"tv_show_share"`
}

// GenreYearCount is one data point of a genre trend line.
type GenreYearCount struct {
	Year  int    `json:"year"`
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// RatingYearMatrix is the rating x year-added count matrix backing the
// ratings heatmap. Absent cells are zero.
type RatingYearMatrix struct {
	Ratings []string               `json:"ratings"`
	Years   []int                  `json:"years"`
	Counts  map[string]map[int]int `json:"counts"`
}

// keyValues returns the grouping values a record contributes to. A record
// with three genres contributes to three genre buckets.
func keyValues(t dataset.Title, key GroupKey) []string {
	switch key {
	case ByType:
		return []string{t.Type}
	case ByGenre:
		return t.Genres
	case ByCountry:
		return t.Countries
	case ByRegion:
		return t.Regions
	case ByRating:
		return []string{t.Rating}
	case ByReleaseYear:
		if t.ReleaseYear == 0 {
			return nil
		}
		return []string{strconv.Itoa(t.ReleaseYear)}
	case ByYearAdded:
		if t.YearAdded == 0 {
			return nil
		}
		return []string{strconv.Itoa(t.YearAdded)}
	}
	return nil
}

// CountBy groups table by key and counts each (record, value) pair once.
// Buckets come back ordered by count descending, key ascending on ties, so
// rankings are deterministic. An empty table yields an empty result.
func CountBy(table dataset.Table, key GroupKey) []Bucket {
	counts := make(map[string]int)
	for _, t := range table {
		for _, v := range keyValues(t, key) {
			counts[v]++
		}
	}

	buckets := make([]Bucket, 0, len(counts))
	for k, c := range counts {
		buckets = append(buckets, Bucket{Key: k, Count: c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// TopN returns the first n buckets of a ranking, or all of them when the
// ranking is shorter.
func TopN(buckets []Bucket, n int) []Bucket {
	if n < 0 {
		n = 0
	}
	if len(buckets) <= n {
		return buckets
	}
	return buckets[:n]
}

// ComputeOverview counts the table and its movie/TV split.
func ComputeOverview(table dataset.Table) Overview {
	o := Overview{Total: len(table)}
	for _, t := range table {
		switch t.Type {
		case dataset.TypeMovie:
			o.Movies++
		case dataset.TypeTVShow:
			o.TVShows++
		}
	}
	return o
}

// TitlesPerYear counts titles by the year they were added, sorted by year
// ascending. Titles with an unknown added date are omitted.
func TitlesPerYear(table dataset.Table) []YearCount {
	counts := make(map[int]int)
	for _, t := range table {
		if t.YearAdded != 0 {
			counts[t.YearAdded]++
		}
	}

	series := make([]YearCount, 0, len(counts))
	for year, c := range counts {
		series = append(series, YearCount{Year: year, Count: c})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}

// CountByYearAndType cross-tabulates year added against content type,
// sorted by year then type.
func CountByYearAndType(table dataset.Table) []YearTypeCount {
	type cell struct {
		year int
		typ  string
	}
	counts := make(map[cell]int)
	for _, t := range table {
		if t.YearAdded != 0 {
			counts[cell{t.YearAdded, t.Type}]++
		}
	}

	out := make([]YearTypeCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, YearTypeCount{Year: c.year, Type: c.typ, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// TypeShareByYear converts the year x type cross-tab into per-year shares.
// Shares for a year with any titles sum to 1.
func TypeShareByYear(table dataset.Table) []YearShare {
	movies := make(map[int]int)
	shows := make(map[int]int)
	for _, t := range table {
		if t.YearAdded == 0 {
			continue
		}
		switch t.Type {
		case dataset.TypeMovie:
			movies[t.YearAdded]++
		case dataset.TypeTVShow:
			shows[t.YearAdded]++
		}
	}

	years := make(map[int]bool)
	for y := range movies {
		years[y] = true
	}
	for y := range shows {
		years[y] = true
	}

	shares := make([]YearShare, 0, len(years))
	for y := range years {
		total := movies[y] + shows[y]
		if total == 0 {
			continue
		}
		shares = append(shares, YearShare{
			Year:        y,
			MovieShare:  float64(movies[y]) / float64(total),
			TVShowShare: float64(shows[y]) / float64(total),
		})
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].Year < shares[j].Year })
	return shares
}

// GenreTrend counts the chosen genres per year added, sorted by year then
// genre. Records tagged with several of the chosen genres count once per
// matching genre.
func GenreTrend(table dataset.Table, genres []string) []GenreYearCount {
	chosen := toSet(genres)
	if chosen == nil {
		return nil
	}

	type point struct {
		year  int
		genre string
	}
	counts := make(map[point]int)
	for _, t := range table {
		if t.YearAdded == 0 {
			continue
		}
		for _, g := range t.Genres {
			if chosen[g] {
				counts[point{t.YearAdded, g}]++
			}
		}
	}

	trend := make([]GenreYearCount, 0, len(counts))
	for p, n := range counts {
		trend = append(trend, GenreYearCount{Year: p.year, Genre: p.genre, Count: n})
	}
	sort.Slice(trend, func(i, j int) bool {
		if trend[i].Year != trend[j].Year {
			return trend[i].Year < trend[j].Year
		}
		return trend[i].Genre < trend[j].Genre
	})
	return trend
}

// BuildRatingYearMatrix builds the rating x year-added count matrix.
// Ratings and years are sorted for stable rendering.
func BuildRatingYearMatrix(table dataset.Table) RatingYearMatrix {
	m := RatingYearMatrix{Counts: make(map[string]map[int]int)}
	yearSet := make(map[int]bool)

	for _, t := range table {
		if t.YearAdded == 0 || t.Rating == "" {
			continue
		}
		row := m.Counts[t.Rating]
		if row == nil {
			row = make(map[int]int)
			m.Counts[t.Rating] = row
			m.Ratings = append(m.Ratings, t.Rating)
		}
		row[t.YearAdded]++
		yearSet[t.YearAdded] = true
	}

	for y := range yearSet {
		m.Years = append(m.Years, y)
	}
	sort.Strings(m.Ratings)
	sort.Ints(m.Years)
	return m
}
