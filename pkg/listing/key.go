package listing

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

// hashKeyPrefix marks content-hash fallback keys so they are recognizable
// next to real listing ids in the state file.
const hashKeyPrefix = "h:"

var (
	trailingDigits = regexp.MustCompile(`(\d+)$`)

	// Ordered by specificity. The dwelling-type pattern matches funda-style
	// detail paths like /appartement-12345678-straatnaam.
	urlIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/object-(\d+)/?$`),
		regexp.MustCompile(`/(?:appartement|huis|kamer|garage|parkeerplaats|bouwgrond|project|woning)-(\d+)`),
		regexp.MustCompile(`/(\d+)/?$`),
	}
)

// ResolveKey derives a stable identifier for a raw listing. It never fails:
// an explicit extractor-supplied id wins, then a numeric id parsed from the
// detail URL, then a content hash. The result is deterministic for identical
// input but only injective in practice — two id-less listings with identical
// content collapse into one key, and markup drift can shift a listing onto a
// new key. Both are accepted degradations, not errors.
func ResolveKey(raw RawListing) string {
	if id := strings.TrimSpace(raw.CandidateID); id != "" {
		// attribute values sometimes embed the id in a longer token
		if m := trailingDigits.FindStringSubmatch(id); m != nil {
			return m[1]
		}
		return id
	}

	if raw.URL != "" {
		for _, p := range urlIDPatterns {
			if m := p.FindStringSubmatch(raw.URL); m != nil {
				return m[1]
			}
		}
	}

	return hashKeyPrefix + contentHash(raw)
}

func contentHash(raw RawListing) string {
	text := raw.RawText
	if strings.TrimSpace(text) == "" {
		text = strings.Join([]string{raw.Title, raw.Price, raw.Address, raw.URL}, "|")
	}
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
