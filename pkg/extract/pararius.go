package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JurrevE/pararius-monitor/pkg/listing"
)

const parariusBaseURL = "https://www.pararius.com"

// Pararius extracts listings from a pararius.com search-results page.
type Pararius struct{}

func NewPararius() *Pararius {
	return &Pararius{}
}

func (p *Pararius) Site() string {
	return "pararius"
}

func (p *Pararius) Extract(body []byte) ([]listing.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var listings []listing.RawListing

	doc.Find("ul.search-list li.search-list__item--listing").Each(func(i int, s *goquery.Selection) {
		id, ok := s.Attr("data-listing-id")
		if !ok || id == "" {
			id, _ = s.Attr("id")
		}

		title := strings.TrimSpace(s.Find(".listing-search-item__title").Text())

		var link string
		if href, ok := s.Find("a.listing-search-item__link--title").Attr("href"); ok {
			link = absolutize(href, parariusBaseURL)
		}

		price := strings.TrimSpace(s.Find(".listing-search-item__price").Text())
		address := strings.TrimSpace(s.Find(".listing-search-item__location").Text())

		listings = append(listings, listing.RawListing{
			Title:       title,
			Price:       price,
			Address:     address,
			URL:         link,
			CandidateID: id,
			RawText:     collapseWhitespace(s.Text()),
		})
	})

	return listings, nil
}

func absolutize(href, base string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return base + href
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
