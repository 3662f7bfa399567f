package domain_test

import (
	"testing"

	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary_Lookup(t *testing.T) {
	v := domain.DefaultVocabulary()

	city, ok := v.Lookup("  new YORK ")
	require.True(t, ok)
	assert.Equal(t, domain.City("New York"), city)

	_, ok = v.Lookup("Berlin")
	assert.False(t, ok)
	assert.Equal(t, 9, v.Len())
}

func TestVocabulary_Without(t *testing.T) {
	v := domain.DefaultVocabulary()

	rest := v.Without("tokyo")
	assert.Len(t, rest, 8)
	assert.NotContains(t, rest, domain.City("Tokyo"))
	assert.Equal(t, domain.City("Dhaka"), rest[0])

	assert.Equal(t, v.Cities(), v.Without(""))
}

func TestVocabulary_Errors(t *testing.T) {
	_, err := domain.NewVocabulary()
	assert.ErrorIs(t, err, domain.ErrInvalidVocabulary)

	_, err = domain.NewVocabulary("Dhaka", " ")
	assert.ErrorIs(t, err, domain.ErrInvalidVocabulary)

	_, err = domain.NewVocabulary("Dhaka", "DHAKA")
	assert.ErrorIs(t, err, domain.ErrDuplicateCity)
}

func TestVocabulary_CitiesIsACopy(t *testing.T) {
	v := domain.DefaultVocabulary()
	cities := v.Cities()
	cities[0] = "Gotham"
	assert.Equal(t, domain.City("Dhaka"), v.Cities()[0])
}

func TestJoinCities(t *testing.T) {
	assert.Equal(t, "Dhaka, New York", domain.JoinCities([]domain.City{"Dhaka", "New York"}))
	assert.Equal(t, "", domain.JoinCities(nil))
}
