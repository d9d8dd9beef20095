package monitor

import (
	"time"

	"github.com/JurrevE/pararius-monitor/pkg/listing"
	"github.com/JurrevE/pararius-monitor/pkg/seenset"
)

// Detect partitions one extraction result against the seen state: records
// whose resolved key is already known are dropped, the rest become snapshots
// stamped with now, are added to seen, and are returned in extraction order.
//
// An empty extraction result mutates nothing and returns nothing. A page
// that temporarily fails to parse must never be read as "all listings are
// gone", or the next good scrape would flood every listing as new again.
func Detect(source string, raws []listing.RawListing, seen *seenset.SeenSet, now time.Time) []listing.Snapshot {
	if len(raws) == 0 {
		return nil
	}

	seen.EnsureSource(source)

	var fresh []listing.Snapshot
	for _, raw := range raws {
		key := listing.ResolveKey(raw)
		if seen.Has(source, key) {
			continue
		}

		snap := listing.NewSnapshot(raw, source, now)
		seen.Add(source, snap)
		fresh = append(fresh, snap)
	}

	return fresh
}
