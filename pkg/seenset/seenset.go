package seenset

import (
	"github.com/JurrevE/pararius-monitor/pkg/listing"
)

// SeenSet maps source URL -> listing key -> snapshot as first discovered.
// It only ever grows: keys are never evicted, and a snapshot is never
// overwritten once written. One SeenSet is owned by exactly one monitor
// goroutine, so there is no locking here.
type SeenSet struct {
	sources map[string]map[string]listing.Snapshot
}

func New() *SeenSet {
	return &SeenSet{
		sources: make(map[string]map[string]listing.Snapshot),
	}
}

// EnsureSource guarantees an entry for source exists. Idempotent.
func (s *SeenSet) EnsureSource(source string) {
	if _, ok := s.sources[source]; !ok {
		s.sources[source] = make(map[string]listing.Snapshot)
	}
}

func (s *SeenSet) Has(source, key string) bool {
	_, ok := s.sources[source][key]
	return ok
}

// Add records a snapshot under its key. First write wins: a key already
// present keeps its original snapshot.
func (s *SeenSet) Add(source string, snap listing.Snapshot) {
	s.EnsureSource(source)
	if _, ok := s.sources[source][snap.Key]; ok {
		return
	}
	s.sources[source][snap.Key] = snap
}

// Snapshot returns the stored snapshot for a key, if any.
func (s *SeenSet) Snapshot(source, key string) (listing.Snapshot, bool) {
	snap, ok := s.sources[source][key]
	return snap, ok
}

// Count returns the number of seen listings for one source.
func (s *SeenSet) Count(source string) int {
	return len(s.sources[source])
}

// Total returns the number of seen listings across all sources.
func (s *SeenSet) Total() int {
	n := 0
	for _, keys := range s.sources {
		n += len(keys)
	}
	return n
}

func (s *SeenSet) Sources() []string {
	out := make([]string, 0, len(s.sources))
	for source := range s.sources {
		out = append(out, source)
	}
	return out
}
