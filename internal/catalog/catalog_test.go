package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	all := c.Search("")
	assert.Len(t, all, 110)
	assert.Equal(t, "Moscow", all[0].Name)
	assert.Contains(t, c.Countries(), "Belarus")
}

func TestSearch(t *testing.T) {
	c := New([]City{
		{Name: "Minsk", Country: "Belarus", Region: "Capital"},
		{Name: "Brest", Country: "Belarus", Region: "Brest"},
		{Name: "Kazan", Country: "Russia", Region: "Volga"},
	})

	assert.Equal(t, []City{{Name: "Minsk", Country: "Belarus", Region: "Capital"}}, c.Search(" mIn "))
	assert.Len(t, c.Search("belarus"), 2)
	assert.Len(t, c.Search("volga"), 1)
	assert.Empty(t, c.Search("paris"))
	assert.Len(t, c.Search("  "), 3)
}

func TestCountriesAndByCountry(t *testing.T) {
	c := New([]City{
		{Name: "Kazan", Country: "Russia"},
		{Name: "Minsk", Country: "Belarus"},
		{Name: "Perm", Country: "Russia"},
	})

	assert.Equal(t, []string{"Belarus", "Russia"}, c.Countries())
	assert.Equal(t, []City{{Name: "Kazan", Country: "Russia"}, {Name: "Perm", Country: "Russia"}}, c.ByCountry("Russia"))
	assert.Empty(t, c.ByCountry("France"))
}
