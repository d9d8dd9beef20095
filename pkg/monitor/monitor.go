package monitor

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/JurrevE/pararius-monitor/pkg/extract"
	"github.com/JurrevE/pararius-monitor/pkg/fetch"
	"github.com/JurrevE/pararius-monitor/pkg/listing"
	"github.com/JurrevE/pararius-monitor/pkg/notify"
	"github.com/JurrevE/pararius-monitor/pkg/seenset"
	"github.com/JurrevE/pararius-monitor/pkg/storage"
)

// minInterval floors the sleep between cycles so a misconfigured interval
// can never hammer a third-party site.
const minInterval = 60 * time.Second

type Stats struct {
	StartTime      time.Time
	Cycles         int
	NewListings    int
	SourceErrors   int
	NotifyFailures int
	SeenTotal      int
	LastCycle      time.Time
}

// Options configures one Monitor.
type Options struct {
	Name        string
	Sources     []string
	Interval    time.Duration
	Jitter      float64
	SourceDelay time.Duration
	NotifyDelay time.Duration
}

// Monitor owns the poll loop for one site: a fixed source list, its own
// seen state and state file, and its own notifier. Everything inside Run
// happens on a single goroutine; only Stats is shared with readers.
type Monitor struct {
	opts      Options
	fetcher   fetch.Fetcher
	extractor extract.Extractor
	notifier  notify.Notifier
	store     *seenset.FileStore
	archive   storage.Archive

	mu    sync.Mutex
	stats Stats
}

func New(opts Options, f fetch.Fetcher, e extract.Extractor, n notify.Notifier, store *seenset.FileStore, archive storage.Archive) *Monitor {
	if opts.Interval < minInterval {
		opts.Interval = minInterval
	}
	return &Monitor{
		opts:      opts,
		fetcher:   f,
		extractor: e,
		notifier:  n,
		store:     store,
		archive:   archive,
	}
}

func (m *Monitor) Name() string {
	return m.opts.Name
}

func (m *Monitor) SourceCount() int {
	return len(m.opts.Sources)
}

// Stats returns a copy of the live counters for the status endpoints.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Run executes the poll loop until ctx is cancelled: an immediate first
// check, then check/sleep forever. A panic anywhere in a cycle is recovered
// and answered with an extended backoff instead of process death; the only
// way out is cancellation, which flushes the seen state one last time.
func (m *Monitor) Run(ctx context.Context) {
	seen := m.store.Load()
	for _, source := range m.opts.Sources {
		seen.EnsureSource(source)
	}

	m.mu.Lock()
	m.stats.StartTime = time.Now()
	m.stats.SeenTotal = seen.Total()
	m.mu.Unlock()

	slog.Info("monitor started",
		slog.String("monitor", m.opts.Name),
		slog.Int("sources", len(m.opts.Sources)),
		slog.Duration("interval", m.opts.Interval),
		slog.Int("known_listings", seen.Total()),
	)

	for {
		panicked := m.runCycle(ctx, seen)

		if ctx.Err() != nil {
			m.shutdown(seen)
			return
		}

		sleep := m.nextSleep(panicked)
		slog.Info("next check scheduled",
			slog.String("monitor", m.opts.Name),
			slog.Duration("sleep", sleep),
		)

		select {
		case <-ctx.Done():
			m.shutdown(seen)
			return
		case <-time.After(sleep):
		}
	}
}

func (m *Monitor) shutdown(seen *seenset.SeenSet) {
	if err := m.store.Save(seen); err != nil {
		slog.Error("final state save failed",
			slog.String("monitor", m.opts.Name),
			slog.Any("err", err),
		)
	}
	slog.Info("monitor stopped", slog.String("monitor", m.opts.Name))
}

// runCycle checks every source sequentially, saves the state once after the
// whole batch, then notifies. Per-source failures are isolated: a broken
// fetch or parse costs that source one cycle, nothing more.
func (m *Monitor) runCycle(ctx context.Context, seen *seenset.SeenSet) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			slog.Error("panic in check cycle, backing off",
				slog.String("monitor", m.opts.Name),
				slog.Any("panic", r),
			)
		}
	}()

	slog.Info("checking for new listings", slog.String("monitor", m.opts.Name))

	var fresh []listing.Snapshot
	for i, source := range m.opts.Sources {
		if ctx.Err() != nil {
			break
		}

		fresh = append(fresh, m.checkSource(ctx, source, seen)...)

		if i < len(m.opts.Sources)-1 {
			m.politePause(ctx, m.opts.SourceDelay)
		}
	}

	// One save per batch. If it fails the detections stay in memory and the
	// next cycle's save covers them.
	if err := m.store.Save(seen); err != nil {
		slog.Error("could not save state, retrying next cycle",
			slog.String("monitor", m.opts.Name),
			slog.Any("err", err),
		)
	}

	if len(fresh) > 0 {
		slog.Info("new listings found",
			slog.String("monitor", m.opts.Name),
			slog.Int("count", len(fresh)),
		)
	} else {
		slog.Info("no new listings", slog.String("monitor", m.opts.Name))
	}

	notifyFailures := 0
	for i, snap := range fresh {
		if ctx.Err() != nil {
			break
		}
		if !m.notifier.Notify(ctx, snap) {
			notifyFailures++
		}
		if i < len(fresh)-1 {
			m.politePause(ctx, m.opts.NotifyDelay)
		}
	}

	m.mu.Lock()
	m.stats.Cycles++
	m.stats.NewListings += len(fresh)
	m.stats.NotifyFailures += notifyFailures
	m.stats.SeenTotal = seen.Total()
	m.stats.LastCycle = time.Now()
	m.mu.Unlock()

	return false
}

func (m *Monitor) checkSource(ctx context.Context, source string, seen *seenset.SeenSet) []listing.Snapshot {
	body, err := m.fetcher.Fetch(ctx, source)
	if err != nil {
		m.countSourceError()
		slog.Error("fetch failed",
			slog.String("monitor", m.opts.Name),
			slog.String("source", source),
			slog.Any("err", err),
		)
		return nil
	}

	raws, err := m.extractor.Extract(body)
	if err != nil {
		m.countSourceError()
		slog.Error("extraction failed",
			slog.String("monitor", m.opts.Name),
			slog.String("source", source),
			slog.Any("err", err),
		)
		return nil
	}

	if len(raws) == 0 {
		// soft failure: page structure likely changed, leave state untouched
		slog.Warn("zero listings extracted, leaving state untouched",
			slog.String("monitor", m.opts.Name),
			slog.String("source", source),
		)
		return nil
	}

	fresh := Detect(source, raws, seen, time.Now())

	for _, snap := range fresh {
		m.archiveListing(ctx, snap)
	}

	slog.Info("source checked",
		slog.String("monitor", m.opts.Name),
		slog.String("source", source),
		slog.Int("extracted", len(raws)),
		slog.Int("new", len(fresh)),
		slog.Int("known", seen.Count(source)),
	)

	return fresh
}

func (m *Monitor) archiveListing(ctx context.Context, snap listing.Snapshot) {
	if m.archive == nil {
		return
	}
	if err := m.archive.SaveListing(ctx, snap); err != nil {
		slog.Error("could not archive listing",
			slog.String("monitor", m.opts.Name),
			slog.String("key", snap.Key),
			slog.Any("err", err),
		)
	}
}

func (m *Monitor) countSourceError() {
	m.mu.Lock()
	m.stats.SourceErrors++
	m.mu.Unlock()
}

// nextSleep applies jitter to the configured interval, floored at
// minInterval. After a panic the base doubles.
func (m *Monitor) nextSleep(panicked bool) time.Duration {
	base := m.opts.Interval
	if panicked {
		base *= 2
	}

	jitter := m.opts.Jitter
	if jitter < 0 {
		jitter = 0
	}
	factor := 1 + (rand.Float64()*2-1)*jitter

	sleep := time.Duration(float64(base) * factor)
	if sleep < minInterval {
		sleep = minInterval
	}
	return sleep
}

// politePause sleeps a randomized fraction of delay, returning early on
// cancellation. Purely a courtesy to the servers on the other end.
func (m *Monitor) politePause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	d := time.Duration(float64(delay) * (0.5 + rand.Float64()))
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
