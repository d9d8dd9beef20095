package notify

import (
	"context"
	"log/slog"

	"github.com/JurrevE/pararius-monitor/pkg/listing"
)

// Notifier delivers an alert for one newly discovered listing. Failure is
// reported through the return value, never a panic: the caller marks the
// listing seen regardless, so a lost notification is lost for good rather
// than re-fired every cycle.
type Notifier interface {
	Notify(ctx context.Context, snap listing.Snapshot) bool
}

// LogNotifier stands in when no SMS credentials are configured. It logs the
// would-be message and reports failure so delivery stats stay honest.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, snap listing.Snapshot) bool {
	slog.Warn("notification credentials not set, cannot send",
		slog.String("title", snap.Title),
		slog.String("url", snap.URL),
	)
	return false
}
