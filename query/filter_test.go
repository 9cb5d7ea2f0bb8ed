package query

import (
	"reflect"
	"testing"

	"netflix-explorer/dataset"
)

// sampleTable mirrors a tiny catalog: two US movies and one Indian show.
func sampleTable() dataset.Table {
	return dataset.Table{
		{
			ShowID:      "s1",
			Type:        dataset.TypeMovie,
			Name:        "First Movie",
			Countries:   []string{"United States"},
			Genres:      []string{"Dramas"},
			Regions:     []string{"North America"},
			Rating:      "PG-13",
			ReleaseYear: 2019,
			YearAdded:   2020,
		},
		{
			ShowID:      "s2",
			Type:        dataset.TypeTVShow,
			Name:        "Second Show",
			Countries:   []string{"India"},
			Genres:      []string{"Comedies", "Dramas"},
			Regions:     []string{"Asia"},
			Rating:      "TV-MA",
			ReleaseYear: 2018,
			YearAdded:   2018,
		},
		{
			ShowID:      "s3",
			Type:        dataset.TypeMovie,
			Name:        "Third Movie",
			Countries:   []string{"United States"},
			Genres:      []string{"Comedies"},
			Regions:     []string{"North America"},
			Rating:      "G",
			ReleaseYear: 2021,
			YearAdded:   2021,
		},
	}
}

func showIDs(table dataset.Table) []string {
	ids := make([]string, 0, len(table))
	for _, t := range table {
		ids = append(ids, t.ShowID)
	}
	return ids
}

func TestFilterIdentity(t *testing.T) {
	table := sampleTable()

	filtered := Filter(table, FilterSet{})
	if !reflect.DeepEqual(showIDs(filtered), showIDs(table)) {
		t.Errorf("Empty filter set changed the table: %v", showIDs(filtered))
	}
}

func TestFilterByCountryPreservesOrder(t *testing.T) {
	filtered := Filter(sampleTable(), FilterSet{Countries: []string{"United States"}})

	want := []string{"s1", "s3"}
	if !reflect.DeepEqual(showIDs(filtered), want) {
		t.Errorf("Expected %v, got %v", want, showIDs(filtered))
	}
}

func TestFilterConjunction(t *testing.T) {
	// Type AND genre must both match.
	filtered := Filter(sampleTable(), FilterSet{
		Types:  []string{dataset.TypeMovie},
		Genres: []string{"Comedies"},
	})

	if len(filtered) != 1 || filtered[0].ShowID != "s3" {
		t.Errorf("Expected only s3, got %v", showIDs(filtered))
	}
}

func TestFilterMultiValuedAnyMatch(t *testing.T) {
	// s2 carries two genres; matching either one includes it.
	filtered := Filter(sampleTable(), FilterSet{Genres: []string{"Comedies"}})

	want := []string{"s2", "s3"}
	if !reflect.DeepEqual(showIDs(filtered), want) {
		t.Errorf("Expected %v, got %v", want, showIDs(filtered))
	}
}

func TestFilterWithinAttributeUnion(t *testing.T) {
	// Two allowed countries combine with OR.
	filtered := Filter(sampleTable(), FilterSet{Countries: []string{"United States", "India"}})

	if len(filtered) != 3 {
		t.Errorf("Expected all 3 titles, got %v", showIDs(filtered))
	}
}

func TestFilterNoMatchesIsEmptyNotError(t *testing.T) {
	filtered := Filter(sampleTable(), FilterSet{Countries: []string{"Iceland"}})

	if len(filtered) != 0 {
		t.Errorf("Expected empty result, got %v", showIDs(filtered))
	}
}

func TestFilterComposability(t *testing.T) {
	table := sampleTable()
	p1 := FilterSet{Types: []string{dataset.TypeMovie}}
	p2 := FilterSet{Genres: []string{"Comedies"}}

	chained := Filter(Filter(table, p1), p2)
	merged := Filter(table, p1.And(p2))

	if !reflect.DeepEqual(showIDs(chained), showIDs(merged)) {
		t.Errorf("Chained %v != merged %v", showIDs(chained), showIDs(merged))
	}
}

func TestFilterComposabilitySameAttribute(t *testing.T) {
	table := sampleTable()
	p1 := FilterSet{Genres: []string{"Comedies", "Dramas"}}
	p2 := FilterSet{Genres: []string{"Comedies"}}

	chained := Filter(Filter(table, p1), p2)
	merged := Filter(table, p1.And(p2))

	if !reflect.DeepEqual(showIDs(chained), showIDs(merged)) {
		t.Errorf("Chained %v != merged %v", showIDs(chained), showIDs(merged))
	}
	if !reflect.DeepEqual(showIDs(merged), []string{"s2", "s3"}) {
		t.Errorf("Expected s2 and s3, got %v", showIDs(merged))
	}
}

func TestFilterComposabilityDisjointSets(t *testing.T) {
	table := sampleTable()
	p1 := FilterSet{Countries: []string{"United States"}}
	p2 := FilterSet{Countries: []string{"India"}}

	// No record can satisfy both, chained or merged.
	chained := Filter(Filter(table, p1), p2)
	merged := Filter(table, p1.And(p2))

	if len(chained) != 0 || len(merged) != 0 {
		t.Errorf("Expected empty results, got chained %v merged %v",
			showIDs(chained), showIDs(merged))
	}
}

func TestFilterComposabilityDisjointRanges(t *testing.T) {
	table := sampleTable()
	p1 := FilterSet{ReleaseYears: YearRange{Min: 2018, Max: 2019}}
	p2 := FilterSet{ReleaseYears: YearRange{Min: 2020, Max: 2021}}

	merged := Filter(table, p1.And(p2))
	if len(merged) != 0 {
		t.Errorf("Expected disjoint ranges to match nothing, got %v", showIDs(merged))
	}
}

func TestFilterReleaseYearRange(t *testing.T) {
	filtered := Filter(sampleTable(), FilterSet{ReleaseYears: YearRange{Min: 2019, Max: 2021}})

	want := []string{"s1", "s3"}
	if !reflect.DeepEqual(showIDs(filtered), want) {
		t.Errorf("Expected %v, got %v", want, showIDs(filtered))
	}
}

func TestFilterAddedYearRange(t *testing.T) {
	filtered := Filter(sampleTable(), FilterSet{AddedYears: YearRange{Min: 2018, Max: 2020}})

	want := []string{"s1", "s2"}
	if !reflect.DeepEqual(showIDs(filtered), want) {
		t.Errorf("Expected %v, got %v", want, showIDs(filtered))
	}
}

func TestFilterInvalidRangeIsUnrestricted(t *testing.T) {
	// Min > Max is a bad selection; it must not block the whole catalog.
	filtered := Filter(sampleTable(), FilterSet{ReleaseYears: YearRange{Min: 2021, Max: 2018}})

	if len(filtered) != 3 {
		t.Errorf("Expected invalid range to be ignored, got %v", showIDs(filtered))
	}
}

func TestFilterByRegion(t *testing.T) {
	filtered := Filter(sampleTable(), FilterSet{Regions: []string{"Asia"}})

	if len(filtered) != 1 || filtered[0].ShowID != "s2" {
		t.Errorf("Expected only s2, got %v", showIDs(filtered))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	table := sampleTable()
	Filter(table, FilterSet{Countries: []string{"India"}})

	if !reflect.DeepEqual(showIDs(table), []string{"s1", "s2", "s3"}) {
		t.Errorf("Input table was mutated: %v", showIDs(table))
	}
}
