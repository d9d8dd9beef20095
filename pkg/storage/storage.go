package storage

import (
	"context"

	"github.com/JurrevE/pararius-monitor/pkg/listing"
)

// Archive is an optional append-only mirror of every discovered listing.
// The monitor's source of truth stays the per-monitor state file; the
// archive exists for querying history after the fact.
type Archive interface {
	SaveListing(ctx context.Context, snap listing.Snapshot) error
	Close() error
}
