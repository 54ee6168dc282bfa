package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	c, err := LoadDefault()
	require.NoError(t, err)
	require.Positive(t, c.Len())

	for _, v := range c.Venues() {
		got, ok := c.Lookup(v.Key())
		require.True(t, ok)
		assert.Equal(t, v, got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr error
	}{
		{
			name:    "ignores unknown fields",
			input:   `{"version": 2, "venues": [{"location_link": "v1", "shop_name": "A", "extra": true}]}`,
			wantLen: 1,
		},
		{
			name:    "keeps file order",
			input:   `{"venues": [{"location_link": "v2"}, {"location_link": "v1"}]}`,
			wantLen: 2,
		},
		{
			name:    "empty list",
			input:   `{"venues": []}`,
			wantErr: ErrEmpty,
		},
		{
			name:    "missing field",
			input:   `{}`,
			wantErr: ErrEmpty,
		},
		{
			name:    "missing key",
			input:   `{"venues": [{"shop_name": "A"}]}`,
			wantErr: ErrMissingKey,
		},
		{
			name:    "duplicate key",
			input:   `{"venues": [{"location_link": "v1"}, {"location_link": "v1"}]}`,
			wantErr: ErrDuplicateKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, c.Len())
		})
	}
}

func TestParseOrder(t *testing.T) {
	c, err := Parse(strings.NewReader(`{"venues": [{"location_link": "v2"}, {"location_link": "v1"}]}`))
	require.NoError(t, err)
	venues := c.Venues()
	assert.Equal(t, "v2", venues[0].Key())
	assert.Equal(t, "v1", venues[1].Key())
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"venues": [`))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestVenuesReturnsCopy(t *testing.T) {
	c, err := New([]Venue{{LocationLink: "v1", ShopName: "A"}})
	require.NoError(t, err)

	venues := c.Venues()
	venues[0].ShopName = "changed"

	got, _ := c.Lookup("v1")
	assert.Equal(t, "A", got.ShopName)
}

func TestBanner(t *testing.T) {
	v := Venue{BannerURL: "harbor"}
	assert.Equal(t, "https://img.example/harbor.png", v.Banner("https://img.example/", ".png"))
}
