// Package catalog loads the bundled list of venues shown on the main screen.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

//go:embed venues.json
var bundled []byte

var (
	ErrEmpty        = errors.New("catalog has no venues")
	ErrMissingKey   = errors.New("venue has no location link")
	ErrDuplicateKey = errors.New("duplicate venue location link")
)

// Venue is a read-only registrable location. LocationLink doubles as its key.
type Venue struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	BannerURL    string `json:"banner_url"`
	Location     string `json:"location"`
	ShopName     string `json:"shop_name"`
	Address      string `json:"address"`
	LocationLink string `json:"location_link"`
	OpenTime     string `json:"open_time"`
}

// Key returns the value registrations use to refer to the venue.
func (v Venue) Key() string {
	return v.LocationLink
}

// Banner returns the image location for the venue banner.
func (v Venue) Banner(base, ext string) string {
	return base + v.BannerURL + ext
}

type wrapper struct {
	Venues []Venue `json:"venues"`
}

// Catalog is the immutable, ordered venue list.
type Catalog struct {
	venues []Venue
	byKey  map[string]int
}

// LoadDefault decodes the catalog compiled into the binary.
func LoadDefault() (*Catalog, error) {
	return Parse(bytes.NewReader(bundled))
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes {"venues": [...]}. Unknown fields are ignored.
func Parse(r io.Reader) (*Catalog, error) {
	var w wrapper
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(w.Venues)
}

// New builds a catalog, rejecting missing or repeated keys.
func New(venues []Venue) (*Catalog, error) {
	if len(venues) == 0 {
		return nil, ErrEmpty
	}

	c := &Catalog{
		venues: make([]Venue, len(venues)),
		byKey:  make(map[string]int, len(venues)),
	}
	copy(c.venues, venues)

	for i, v := range c.venues {
		if v.LocationLink == "" {
			return nil, fmt.Errorf("venue %d (%s): %w", i, v.ShopName, ErrMissingKey)
		}
		if _, ok := c.byKey[v.LocationLink]; ok {
			return nil, fmt.Errorf("venue %d (%s): %w", i, v.LocationLink, ErrDuplicateKey)
		}
		c.byKey[v.LocationLink] = i
	}

	return c, nil
}

// Venues returns a copy of all venues in catalog order.
func (c *Catalog) Venues() []Venue {
	out := make([]Venue, len(c.venues))
	copy(out, c.venues)
	return out
}

// Lookup returns the venue whose location link is key.
func (c *Catalog) Lookup(key string) (Venue, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Venue{}, false
	}
	return c.venues[i], true
}

// Len returns the number of venues.
func (c *Catalog) Len() int {
	return len(c.venues)
}
