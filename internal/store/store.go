// Package store owns the committed registrations and their persisted form.
//
// In memory the store is a single slice of Registration. On disk it keeps the
// layout older installs already have: four index-aligned JSON string arrays
// under the keys "venues", "names", "locations" and "phones".
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"
)

// Persisted keys.
const (
	KeyVenues    = "venues"
	KeyNames     = "names"
	KeyLocations = "locations"
	KeyPhones    = "phones"
)

var (
	ErrOutOfRange  = errors.New("registration index out of range")
	ErrStale       = errors.New("registration at index has changed")
	ErrPhoneTaken  = errors.New("phone number already registered")
	ErrEmptyCommit = errors.New("nothing to commit")
)

// KV is the key-value storage the store persists to.
type KV interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
	PutValues(ctx context.Context, values map[string]string) error
}

// Registration is one committed person and the venue they signed up for.
type Registration struct {
	VenueKey string
	Name     string
	Location string
	Phone    string
}

// Row is one attendee of a commit; the venue comes from the commit itself.
type Row struct {
	Name     string
	Location string
	Phone    string
}

// Entry is a registration together with its position in the store.
type Entry struct {
	Index int
	Registration
}

// Store holds the committed registrations. It is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	kv   KV
	regs []Registration
}

// Load restores the store from kv. Undecodable values load as empty sequences.
func Load(ctx context.Context, kv KV) (*Store, error) {
	var seqs [4][]string
	var anomalies error

	for i, key := range []string{KeyVenues, KeyNames, KeyLocations, KeyPhones} {
		raw, ok, err := kv.GetValue(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", key, err)
		}
		if !ok {
			continue
		}
		list, err := decodeList(raw)
		if err != nil {
			anomalies = multierr.Append(anomalies, fmt.Errorf("%s: %w", key, err))
			continue
		}
		seqs[i] = list
	}

	n := len(seqs[0])
	for _, s := range seqs[1:] {
		if len(s) != n {
			anomalies = multierr.Append(anomalies, fmt.Errorf("sequence lengths differ: %d/%d/%d/%d",
				len(seqs[0]), len(seqs[1]), len(seqs[2]), len(seqs[3])))
			break
		}
	}
	for _, s := range seqs[1:] {
		n = min(n, len(s))
	}

	if anomalies != nil {
		log.Warn().Err(anomalies).Int("kept", n).Msg("Persisted registrations were damaged, recovered what could be read")
	}

	regs := make([]Registration, n)
	for i := range regs {
		regs[i] = Registration{
			VenueKey: seqs[0][i],
			Name:     seqs[1][i],
			Location: seqs[2][i],
			Phone:    seqs[3][i],
		}
	}

	log.Info().Int("registrations", n).Msg("Registrations loaded")
	return &Store{kv: kv, regs: regs}, nil
}

// Commit appends rows for venueKey in order and persists. Phones must be new
// to the store and distinct within rows.
func (s *Store) Commit(ctx context.Context, venueKey string, rows []Row) error {
	if len(rows) == 0 {
		return ErrEmptyCommit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.regs)+len(rows))
	for _, r := range s.regs {
		seen[r.Phone] = struct{}{}
	}
	for _, row := range rows {
		if _, ok := seen[row.Phone]; ok {
			return fmt.Errorf("%w: %s", ErrPhoneTaken, row.Phone)
		}
		seen[row.Phone] = struct{}{}
	}

	prev := s.regs
	next := make([]Registration, len(prev), len(prev)+len(rows))
	copy(next, prev)
	for _, row := range rows {
		next = append(next, Registration{
			VenueKey: venueKey,
			Name:     row.Name,
			Location: row.Location,
			Phone:    row.Phone,
		})
	}

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.regs = next

	log.Info().Str("venue", venueKey).Int("rows", len(rows)).Int("total", len(next)).Msg("Registrations committed")
	return nil
}

// Remove deletes the registration at index and persists.
func (s *Store) Remove(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remove(ctx, index, nil)
}

// RemoveExpected is Remove, but only when the entry at index still has phone.
func (s *Store) RemoveExpected(ctx context.Context, index int, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remove(ctx, index, &phone)
}

func (s *Store) remove(ctx context.Context, index int, phone *string) error {
	if index < 0 || index >= len(s.regs) {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(s.regs))
	}
	removed := s.regs[index]
	if phone != nil && removed.Phone != *phone {
		return fmt.Errorf("%w: %d", ErrStale, index)
	}

	next := make([]Registration, 0, len(s.regs)-1)
	next = append(next, s.regs[:index]...)
	next = append(next, s.regs[index+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.regs = next

	log.Info().Str("venue", removed.VenueKey).Str("name", removed.Name).Int("index", index).Msg("Registration removed")
	return nil
}

// RewritePhones replaces every phone with rewrite(phone) and persists the
// result. It reports how many entries changed. Nothing is written when two
// entries would end up with the same phone.
func (s *Store) RewritePhones(ctx context.Context, rewrite func(index int, phone string) string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Registration, len(s.regs))
	owner := make(map[string]int, len(s.regs))
	changed := 0
	for i, r := range s.regs {
		phone := rewrite(i, r.Phone)
		if prev, ok := owner[phone]; ok {
			return 0, fmt.Errorf("%w: %s at %d and %d", ErrPhoneTaken, phone, prev, i)
		}
		owner[phone] = i
		if phone != r.Phone {
			changed++
		}
		r.Phone = phone
		next[i] = r
	}
	if changed == 0 {
		return 0, nil
	}

	if err := s.persist(ctx, next); err != nil {
		return 0, err
	}
	s.regs = next

	log.Info().Int("changed", changed).Msg("Registration phones rewritten")
	return changed, nil
}

// RegistrationsFor returns the entries for venueKey in commit order.
func (s *Store) RegistrationsFor(venueKey string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	for i, r := range s.regs {
		if r.VenueKey == venueKey {
			out = append(out, Entry{Index: i, Registration: r})
		}
	}
	return out
}

// All returns every entry in commit order.
func (s *Store) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.regs))
	for i, r := range s.regs {
		out[i] = Entry{Index: i, Registration: r}
	}
	return out
}

// Phones returns every committed phone number.
func (s *Store) Phones() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.regs))
	for i, r := range s.regs {
		out[i] = r.Phone
	}
	return out
}

// Len returns the number of committed registrations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.regs)
}

func (s *Store) persist(ctx context.Context, regs []Registration) error {
	venues := make([]string, len(regs))
	names := make([]string, len(regs))
	locations := make([]string, len(regs))
	phones := make([]string, len(regs))
	for i, r := range regs {
		venues[i], names[i], locations[i], phones[i] = r.VenueKey, r.Name, r.Location, r.Phone
	}

	values := make(map[string]string, 4)
	for key, list := range map[string][]string{
		KeyVenues:    venues,
		KeyNames:     names,
		KeyLocations: locations,
		KeyPhones:    phones,
	} {
		raw, err := encodeList(list)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		values[key] = raw
	}

	if err := s.kv.PutValues(ctx, values); err != nil {
		return fmt.Errorf("failed to persist registrations: %w", err)
	}
	return nil
}
