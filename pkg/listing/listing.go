package listing

import (
	"fmt"
	"time"
)

// RawListing is one listing as it came out of an extractor, before identity
// resolution. Price stays as-scraped text: formats differ per site and era,
// and nothing downstream needs a number.
type RawListing struct {
	Title       string
	Price       string
	Address     string
	URL         string
	CandidateID string
	RawText     string
}

// Snapshot is the persisted form of a listing at the moment it was first
// discovered. Snapshots are write-once: rediscovering the same key never
// updates the stored record, even when the listing's content changed.
type Snapshot struct {
	Key          string    `json:"-"`
	Title        string    `json:"title"`
	Price        string    `json:"price"`
	Address      string    `json:"address"`
	URL          string    `json:"url"`
	Source       string    `json:"source,omitempty"`
	DiscoveredAt time.Time `json:"found_at"`
}

func NewSnapshot(raw RawListing, source string, discoveredAt time.Time) Snapshot {
	return Snapshot{
		Key:          ResolveKey(raw),
		Title:        raw.Title,
		Price:        raw.Price,
		Address:      raw.Address,
		URL:          raw.URL,
		Source:       source,
		DiscoveredAt: discoveredAt,
	}
}

// Message renders the notification body for this snapshot.
func (s Snapshot) Message() string {
	return fmt.Sprintf("New listing found!\n\n%s\n%s\n%s\n\nView it here: %s",
		s.Title, s.Price, s.Address, s.URL)
}
