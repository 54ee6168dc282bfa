// Package screen models which view a browser is looking at.
package screen

import (
	"errors"
	"fmt"

	"github.com/AlexTLDR/venue-selector/internal/catalog"
)

var ErrInvalidTransition = errors.New("invalid screen transition")

// Screen is either Catalog or Registration.
type Screen interface {
	isScreen()
	String() string
}

// Catalog lists every venue. It is the initial screen.
type Catalog struct{}

// Registration is the form for one venue.
type Registration struct {
	Venue catalog.Venue
}

func (Catalog) isScreen()      {}
func (Registration) isScreen() {}

func (Catalog) String() string { return "catalog" }

func (r Registration) String() string { return "registration(" + r.Venue.Key() + ")" }

// Initial is the screen a new session starts on.
func Initial() Screen {
	return Catalog{}
}

// Register opens the form for v.
func Register(cur Screen, v catalog.Venue) (Screen, error) {
	if _, ok := cur.(Catalog); !ok {
		return cur, fmt.Errorf("%w: register from %s", ErrInvalidTransition, cur)
	}
	return Registration{Venue: v}, nil
}

// Back abandons the form.
func Back(cur Screen) (Screen, error) {
	if _, ok := cur.(Registration); !ok {
		return cur, fmt.Errorf("%w: back from %s", ErrInvalidTransition, cur)
	}
	return Catalog{}, nil
}

// Committed returns to the catalog after a successful commit.
func Committed(cur Screen) (Screen, error) {
	if _, ok := cur.(Registration); !ok {
		return cur, fmt.Errorf("%w: commit from %s", ErrInvalidTransition, cur)
	}
	return Catalog{}, nil
}

// Encode returns the session form of s: empty for Catalog, else the venue key.
func Encode(s Screen) string {
	if r, ok := s.(Registration); ok {
		return r.Venue.Key()
	}
	return ""
}

// Decode restores a screen. Keys no longer in cat fall back to Catalog.
func Decode(key string, cat *catalog.Catalog) Screen {
	if key == "" {
		return Initial()
	}
	v, ok := cat.Lookup(key)
	if !ok {
		return Initial()
	}
	return Registration{Venue: v}
}
