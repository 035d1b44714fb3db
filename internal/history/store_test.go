package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "history.db"))
	if err := s.EnsureSchema(); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return s
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		if err := s.EnsureSchema(); err != nil {
			t.Fatalf("EnsureSchema run %d: %v", i, err)
		}
	}
}

func TestLastSearchedCityWithoutHistory(t *testing.T) {
	s := newTestStore(t)

	if city, ok := s.LastSearchedCity("user1"); ok {
		t.Fatalf("expected no last city, got %q", city)
	}
}

func TestRecordSearchAndLastCity(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().Format(time.RFC3339)

	s.RecordSearch("user1", "Paris", now)

	city, ok := s.LastSearchedCity("user1")
	if !ok || city != "Paris" {
		t.Fatalf("expected Paris, got %q (ok=%v)", city, ok)
	}

	// The most recent record wins.
	s.RecordSearch("user1", "London", now)
	city, ok = s.LastSearchedCity("user1")
	if !ok || city != "London" {
		t.Fatalf("expected London, got %q (ok=%v)", city, ok)
	}

	// Other users' history is invisible.
	if city, ok := s.LastSearchedCity("user2"); ok {
		t.Fatalf("expected no history for user2, got %q", city)
	}
}

func TestRecordSearchIncrementsCityCount(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().Format(time.RFC3339)

	s.RecordSearch("user1", "Berlin", now)

	counts, err := s.TopCities(10)
	if err != nil {
		t.Fatalf("TopCities: %v", err)
	}
	if len(counts) != 1 || counts[0].City != "Berlin" || counts[0].Count != 1 {
		t.Fatalf("after first search: %+v", counts)
	}

	s.RecordSearch("user2", "Berlin", now)

	counts, err = s.TopCities(10)
	if err != nil {
		t.Fatalf("TopCities: %v", err)
	}
	if len(counts) != 1 || counts[0].Count != 2 {
		t.Fatalf("after second search: %+v", counts)
	}
}

func TestTopCitiesOrdersByCount(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().Format(time.RFC3339)

	for i := 0; i < 3; i++ {
		s.RecordSearch("user1", "Moscow", now)
	}
	s.RecordSearch("user1", "Paris", now)
	s.RecordSearch("user2", "Paris", now)
	s.RecordSearch("user3", "Oslo", now)

	counts, err := s.TopCities(2)
	if err != nil {
		t.Fatalf("TopCities: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(counts))
	}
	if counts[0].City != "Moscow" || counts[0].Count != 3 {
		t.Errorf("first row = %+v, want Moscow/3", counts[0])
	}
	if counts[1].City != "Paris" || counts[1].Count != 2 {
		t.Errorf("second row = %+v, want Paris/2", counts[1])
	}
}

func TestCityNamesAreCaseSensitive(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().Format(time.RFC3339)

	s.RecordSearch("user1", "paris", now)
	s.RecordSearch("user1", "Paris", now)

	counts, err := s.TopCities(10)
	if err != nil {
		t.Fatalf("TopCities: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected separate counters for paris/Paris, got %+v", counts)
	}
}
