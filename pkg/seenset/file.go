package seenset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/JurrevE/pararius-monitor/pkg/listing"
)

// FileStore persists a SeenSet as one human-inspectable JSON file:
// source URL -> listing key -> snapshot. The schema only ever gains
// optional fields, so old state files keep loading.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string {
	return f.path
}

// Load reads the persisted state. A missing or unreadable file and malformed
// content all degrade to an empty SeenSet: the worst outcome is one round of
// re-notification, never a crash.
func (f *FileStore) Load() *SeenSet {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("no existing state file, starting fresh", slog.String("path", f.path))
		} else {
			slog.Warn("state file unreadable, starting fresh", slog.String("path", f.path), slog.Any("err", err))
		}
		return New()
	}

	var raw map[string]map[string]listing.Snapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("state file corrupted, starting fresh", slog.String("path", f.path), slog.Any("err", err))
		return New()
	}

	set := New()
	for source, keys := range raw {
		set.EnsureSource(source)
		for key, snap := range keys {
			snap.Key = key
			set.sources[source][key] = snap
		}
	}

	slog.Info("loaded state file", slog.String("path", f.path), slog.Int("listings", set.Total()))
	return set
}

// Save writes the whole SeenSet. Write-to-temp plus rename keeps the previous
// file intact if the process dies mid-write.
func (f *FileStore) Save(set *SeenSet) error {
	data, err := json.MarshalIndent(set.sources, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("could not write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not replace state file: %w", err)
	}

	return nil
}
