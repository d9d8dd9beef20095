package extract

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JurrevE/pararius-monitor/pkg/listing"
)

const fundaBaseURL = "https://www.funda.nl"

// Funda has redesigned its results page several times, so extraction works
// through ordered fallback chains: the first selector generation that yields
// anything wins.
var fundaItemSelectors = []string{
	`[data-test-id="search-result-item"]`,
	`div.border-b.pb-3`,
	`ol.search-results li.search-result`,
}

var fundaLinkSelectors = []string{
	`a[data-testid="listingDetailsAddress"]`,
	`a[href*="/koop/"], a[href*="/huur/"], a[href*="/object/"]`,
	`a[href*="/detail/"]`,
}

var dutchPostalCode = regexp.MustCompile(`\d{4}\s?[A-Z]{2}`)

type Funda struct{}

func NewFunda() *Funda {
	return &Funda{}
}

func (f *Funda) Site() string {
	return "funda"
}

func (f *Funda) Extract(body []byte) ([]listing.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var items *goquery.Selection
	for _, sel := range fundaItemSelectors {
		items = doc.Find(sel)
		if items.Length() > 0 {
			slog.Debug("funda items matched", slog.String("selector", sel), slog.Int("count", items.Length()))
			break
		}
	}

	if items == nil || items.Length() == 0 {
		return nil, nil
	}

	var listings []listing.RawListing

	items.Each(func(i int, s *goquery.Selection) {
		link := findFundaLink(s)
		if link == nil {
			slog.Debug("funda item without detail link, skipping", slog.Int("index", i))
			return
		}

		href, _ := link.Attr("href")
		url := cleanFundaURL(href)

		id, _ := s.Attr("data-object-id")

		listings = append(listings, listing.RawListing{
			Title:       fundaTitle(link),
			Price:       fundaPrice(s),
			Address:     fundaAddress(link),
			URL:         url,
			CandidateID: id,
			RawText:     collapseWhitespace(s.Text()),
		})
	})

	return listings, nil
}

func findFundaLink(s *goquery.Selection) *goquery.Selection {
	for _, sel := range fundaLinkSelectors {
		if link := s.Find(sel).First(); link.Length() > 0 {
			return link
		}
	}
	return nil
}

func cleanFundaURL(href string) string {
	if href == "" {
		return ""
	}
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href = href[:i]
	}
	return absolutize(href, fundaBaseURL)
}

func fundaTitle(link *goquery.Selection) string {
	if span := link.Find("div.flex.font-semibold span.truncate").First(); span.Length() > 0 {
		if t := strings.TrimSpace(span.Text()); t != "" {
			return t
		}
	}
	if h := link.Find("h1, h2, h3, h4").First(); h.Length() > 0 {
		if t := firstLine(h.Text()); t != "" {
			return t
		}
	}
	// short link text is usually the street address acting as title
	if t := firstLine(link.Text()); len(t) > 5 && len(t) < 100 {
		return t
	}
	return ""
}

func fundaAddress(link *goquery.Selection) string {
	if div := link.Find("div.truncate.text-neutral-80").First(); div.Length() > 0 {
		if a := strings.TrimSpace(div.Text()); a != "" {
			return a
		}
	}
	var address string
	link.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if dutchPostalCode.MatchString(text) {
			address = text
			return false
		}
		return true
	})
	return address
}

func fundaPrice(s *goquery.Selection) string {
	el := s.Find("div.text-xl.font-semibold, p.text-xl.font-semibold").First()
	if el.Length() > 0 {
		text := strings.TrimSpace(el.Text())
		if strings.Contains(text, "€") {
			return text
		}
	}
	return ""
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
