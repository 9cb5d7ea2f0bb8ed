package query

import "netflix-explorer/dataset"

// YearRange restricts a year attribute to [Min, Max] inclusive. A range with
// non-positive bounds or Min > Max is treated as unset, so a bad selection
// from the presentation layer degrades to "no restriction" instead of
// blocking the interactive loop.
type YearRange struct {
	Min int
	Max int
}

func (r YearRange) active() bool {
	return r.Min > 0 && r.Max > 0 && r.Min <= r.Max
}

func (r YearRange) contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// FilterSet is the active combination of user-chosen filters. Empty fields
// mean "no restriction". Attributes combine with AND; the allowed values
// within one attribute combine with OR.
type FilterSet struct {
	Types     []string
	Countries []string
	Genres    []string
	Regions   []string
	Ratings   []string

	// ReleaseYears restricts the production year, AddedYears the year the
	// title appeared in the catalog.
	ReleaseYears YearRange
	AddedYears   YearRange
}

// Empty reports whether the set places no restriction at all.
func (f FilterSet) Empty() bool {
	return len(f.Types) == 0 &&
		len(f.Countries) == 0 &&
		len(f.Genres) == 0 &&
		len(f.Regions) == 0 &&
		len(f.Ratings) == 0 &&
		!f.ReleaseYears.active() &&
		!f.AddedYears.active()
}

// matchNothing is an impossible attribute value. A conjunction whose
// predicates share no allowed value degenerates to it, so the merged set
// matches no record instead of silently dropping the restriction.
const matchNothing = "\x00"

// And merges two filter sets into their conjunction, so that
// Filter(Filter(t, a), b) == Filter(t, a.And(b)). Value sets restricting the
// same attribute intersect; ranges narrow to their overlap.
func (f FilterSet) And(other FilterSet) FilterSet {
	merged := FilterSet{
		Types:     intersectValues(f.Types, other.Types),
		Countries: intersectValues(f.Countries, other.Countries),
		Genres:    intersectValues(f.Genres, other.Genres),
		Regions:   intersectValues(f.Regions, other.Regions),
		Ratings:   intersectValues(f.Ratings, other.Ratings),
	}

	var ok bool
	merged.ReleaseYears, ok = intersectRanges(f.ReleaseYears, other.ReleaseYears)
	if !ok {
		merged.Types = []string{matchNothing}
	}
	merged.AddedYears, ok = intersectRanges(f.AddedYears, other.AddedYears)
	if !ok {
		merged.Types = []string{matchNothing}
	}

	return merged
}

func intersectValues(a, b []string) []string {
	if len(a) == 0 {
		return append([]string{}, b...)
	}
	if len(b) == 0 {
		return append([]string{}, a...)
	}

	allowed := toSet(b)
	out := make([]string, 0, len(a))
	for _, v := range a {
		if allowed[v] {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []string{matchNothing}
	}
	return out
}

// intersectRanges narrows two ranges to their overlap. Inactive ranges place
// no restriction; ok is false when both are active but disjoint.
func intersectRanges(a, b YearRange) (YearRange, bool) {
	if !a.active() {
		return b, true
	}
	if !b.active() {
		return a, true
	}

	merged := YearRange{Min: a.Min, Max: a.Max}
	if b.Min > merged.Min {
		merged.Min = b.Min
	}
	if b.Max < merged.Max {
		merged.Max = b.Max
	}
	if merged.Min > merged.Max {
		return YearRange{}, false
	}
	return merged, true
}

// Filter returns the subsequence of table matching every active predicate,
// preserving the input order. It never fails: no matches yield an empty
// table. The input table is not modified.
func Filter(table dataset.Table, filters FilterSet) dataset.Table {
	if filters.Empty() {
		return table
	}

	m := newMatcher(filters)
	out := make(dataset.Table, 0, len(table))
	for _, t := range table {
		if m.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// matcher holds the predicate sets as maps so each record check is a lookup.
type matcher struct {
	filters   FilterSet
	types     map[string]bool
	countries map[string]bool
	genres    map[string]bool
	regions   map[string]bool
	ratings   map[string]bool
}

func newMatcher(filters FilterSet) *matcher {
	return &matcher{
		filters:   filters,
		types:     toSet(filters.Types),
		countries: toSet(filters.Countries),
		genres:    toSet(filters.Genres),
		regions:   toSet(filters.Regions),
		ratings:   toSet(filters.Ratings),
	}
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func (m *matcher) matches(t dataset.Title) bool {
	if m.types != nil && !m.types[t.Type] {
		return false
	}
	if m.ratings != nil && !m.ratings[t.Rating] {
		return false
	}
	if m.countries != nil && !anyIn(t.Countries, m.countries) {
		return false
	}
	if m.genres != nil && !anyIn(t.Genres, m.genres) {
		return false
	}
	if m.regions != nil && !anyIn(t.Regions, m.regions) {
		return false
	}
	if m.filters.ReleaseYears.active() && !m.filters.ReleaseYears.contains(t.ReleaseYear) {
		return false
	}
	if m.filters.AddedYears.active() && !m.filters.AddedYears.contains(t.YearAdded) {
		return false
	}
	return true
}

// anyIn reports whether any of a record's values for a multi-valued
// attribute intersects the allowed set.
func anyIn(values []string, allowed map[string]bool) bool {
	for _, v := range values {
		if allowed[v] {
			return true
		}
	}
	return false
}
