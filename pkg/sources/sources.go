package sources

import (
	"errors"
	"log/slog"

	"github.com/PuerkitoBio/purell"
)

var ErrNoSources = errors.New("no usable sources")

// Normalize canonicalizes a source URL so the same logical search maps to
// the same key in the state file regardless of how it was typed. Query
// sorting matters here: search filters arrive as query parameters in
// whatever order the user pasted them.
func Normalize(url string) (string, error) {
	flags := purell.FlagLowercaseScheme |
		purell.FlagLowercaseHost |
		purell.FlagRemoveDefaultPort |
		purell.FlagRemoveFragment |
		purell.FlagDecodeUnnecessaryEscapes |
		purell.FlagSortQuery |
		purell.FlagRemoveDuplicateSlashes |
		purell.FlagRemoveDotSegments

	return purell.NormalizeURLString(url, flags)
}

// Prepare normalizes and de-duplicates a configured source list, preserving
// order. Unparseable entries are dropped with a logged error rather than
// failing startup; only an entirely empty result is an error.
func Prepare(urls []string) ([]string, error) {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))

	for _, u := range urls {
		normalized, err := Normalize(u)
		if err != nil {
			slog.Error("couldn't normalize source, dropping", slog.String("source", u), slog.Any("err", err))
			continue
		}
		if _, dup := seen[normalized]; dup {
			slog.Warn("duplicate source, skipping", slog.String("source", u))
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}

	if len(out) == 0 {
		return nil, ErrNoSources
	}

	return out, nil
}
