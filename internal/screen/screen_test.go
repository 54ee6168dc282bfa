package screen

import (
	"testing"

	"github.com/AlexTLDR/venue-selector/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var venue = catalog.Venue{LocationLink: "v1", ShopName: "Harbor Hall"}

func TestTransitions(t *testing.T) {
	s := Initial()
	assert.Equal(t, Catalog{}, s)

	s, err := Register(s, venue)
	require.NoError(t, err)
	assert.Equal(t, Registration{Venue: venue}, s)

	back, err := Back(s)
	require.NoError(t, err)
	assert.Equal(t, Catalog{}, back)

	done, err := Committed(s)
	require.NoError(t, err)
	assert.Equal(t, Catalog{}, done)
}

func TestInvalidTransitions(t *testing.T) {
	reg := Registration{Venue: venue}

	tests := []struct {
		name string
		from Screen
		move func(Screen) (Screen, error)
	}{
		{name: "register twice", from: reg, move: func(s Screen) (Screen, error) { return Register(s, venue) }},
		{name: "back from catalog", from: Catalog{}, move: Back},
		{name: "commit from catalog", from: Catalog{}, move: Committed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.move(tt.from)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	cat, err := catalog.New([]catalog.Venue{venue})
	require.NoError(t, err)

	assert.Equal(t, "", Encode(Catalog{}))
	assert.Equal(t, "v1", Encode(Registration{Venue: venue}))

	assert.Equal(t, Catalog{}, Decode("", cat))
	assert.Equal(t, Registration{Venue: venue}, Decode("v1", cat))
	assert.Equal(t, Catalog{}, Decode("gone", cat))
}
