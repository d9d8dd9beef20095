package extract

import (
	"github.com/JurrevE/pararius-monitor/pkg/listing"
)

// Extractor turns one fetched search-results document into raw listings.
// An empty result with a nil error means "zero listings found" and is not a
// failure at this boundary; the caller decides how to treat it.
//
// Selectors are site-specific and fragile. They live here, behind this
// interface, so selector churn never touches the detection core.
type Extractor interface {
	Extract(body []byte) ([]listing.RawListing, error)
	Site() string
}
