package domain

import (
	"fmt"
	"strings"
)

// City is a recognized city name in its canonical display casing.
type City string

// Equal reports whether two cities name the same place, ignoring case.
func (c City) Equal(other City) bool {
	return strings.EqualFold(string(c), string(other))
}

// IsZero reports whether the city is unset.
func (c City) IsZero() bool {
	return c == ""
}

func (c City) String() string {
	return string(c)
}

// DefaultCities is the ordered vocabulary shipped with the booking flow.
var DefaultCities = []string{"Dhaka", "New York", "London", "Tokyo", "Dubai", "Mumbai", "Paris", "Khulna", "Rajshahi"}

// Vocabulary is an immutable, ordered set of recognized cities.
// The declaration order is the display order and the tie-break order for mentions.
type Vocabulary struct {
	cities []City
	index  map[string]int
}

// NewVocabulary builds a vocabulary from display names.
// Names are trimmed; empty names and case-insensitive duplicates are rejected.
func NewVocabulary(names ...string) (Vocabulary, error) {
	if len(names) == 0 {
		return Vocabulary{}, fmt.Errorf("%w: no cities given", ErrInvalidVocabulary)
	}
	v := Vocabulary{
		cities: make([]City, 0, len(names)),
		index:  make(map[string]int, len(names)),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return Vocabulary{}, fmt.Errorf("%w: empty city name", ErrInvalidVocabulary)
		}
		key := strings.ToLower(name)
		if _, dup := v.index[key]; dup {
			return Vocabulary{}, fmt.Errorf("%w: %q", ErrDuplicateCity, name)
		}
		v.index[key] = len(v.cities)
		v.cities = append(v.cities, City(name))
	}
	return v, nil
}

// DefaultVocabulary returns the vocabulary built from DefaultCities.
func DefaultVocabulary() Vocabulary {
	v, err := NewVocabulary(DefaultCities...)
	if err != nil {
		panic(err)
	}
	return v
}

// Cities returns a copy of the cities in declaration order.
func (v Vocabulary) Cities() []City {
	out := make([]City, len(v.cities))
	copy(out, v.cities)
	return out
}

// Len returns the number of cities.
func (v Vocabulary) Len() int {
	return len(v.cities)
}

// Lookup resolves a name to its canonical city, ignoring case and surrounding whitespace.
func (v Vocabulary) Lookup(name string) (City, bool) {
	i, ok := v.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return v.cities[i], true
}

// Without returns the cities in declaration order, excluding the given one.
// An unset city excludes nothing.
func (v Vocabulary) Without(c City) []City {
	out := make([]City, 0, len(v.cities))
	for _, city := range v.cities {
		if !c.IsZero() && city.Equal(c) {
			continue
		}
		out = append(out, city)
	}
	return out
}

// JoinCities renders cities as a comma-separated display list.
func JoinCities(cities []City) string {
	parts := make([]string, len(cities))
	for i, c := range cities {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
