package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUnit(t *testing.T) {
	cases := []struct {
		in     string
		want   Unit
		wantOK bool
	}{
		{"", UnitCentimetre, true},
		{"cm", UnitCentimetre, true},
		{" M ", UnitMetre, true},
		{"m", UnitMetre, true},
		{"ft", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseUnit(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.wantOK, ok, "input %q", tc.in)
	}
}

func TestDimensions_ToCentimetres(t *testing.T) {
	d := Dimensions{Length: 1.5, Width: 2, Height: 0.25}

	assert.Equal(t, d, d.ToCentimetres(UnitCentimetre))
	assert.Equal(t, Dimensions{Length: 150, Width: 200, Height: 25}, d.ToCentimetres(UnitMetre))
}

func TestDimensions_FitsWithin(t *testing.T) {
	capacity := Dimensions{Length: 100, Width: 50, Height: 50}

	assert.True(t, Dimensions{Length: 100, Width: 50, Height: 50}.FitsWithin(capacity))
	assert.True(t, Dimensions{Length: 10, Width: 10, Height: 10}.FitsWithin(capacity))
	assert.False(t, Dimensions{Length: 50, Width: 100, Height: 50}.FitsWithin(capacity), "no rotation")
	assert.False(t, Dimensions{Length: 101, Width: 1, Height: 1}.FitsWithin(capacity))
}

func TestDimensions_IsPositiveAndVolume(t *testing.T) {
	assert.True(t, Dimensions{Length: 1, Width: 2, Height: 3}.IsPositive())
	assert.False(t, Dimensions{Length: 1, Width: 0, Height: 3}.IsPositive())
	assert.Equal(t, 6.0, Dimensions{Length: 1, Width: 2, Height: 3}.Volume())
}

func TestDriver_OverlappingDirections(t *testing.T) {
	shared := Direction{From: "Kazan", To: "Perm"}
	d := &Driver{
		PriorityDirections: []Direction{shared, {From: "A", To: "B"}},
		ExcludedDirections: []Direction{{From: "B", To: "A"}, shared},
	}

	assert.Equal(t, []Direction{shared}, d.OverlappingDirections())
	assert.Empty(t, (&Driver{}).OverlappingDirections())
}
