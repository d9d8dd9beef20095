package storage

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/JurrevE/pararius-monitor/pkg/listing"
)

type PostgresArchive struct {
	db *sql.DB
}

func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{db: db}
}

// SaveListing inserts one discovered listing. Rediscoveries of the same
// (source, key) are silently ignored, matching the write-once snapshot rule.
func (s *PostgresArchive) SaveListing(ctx context.Context, snap listing.Snapshot) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO listings (source, listing_key, title, price, address, url, discovered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (source, listing_key) DO NOTHING`,
		snap.Source, snap.Key, snap.Title, snap.Price, snap.Address, snap.URL, snap.DiscoveredAt,
	)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.Debug("archived listing", slog.String("source", snap.Source), slog.String("key", snap.Key))
	}
	return nil
}

func (s *PostgresArchive) Close() error {
	return s.db.Close()
}
