package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parariusFixture = `<!DOCTYPE html>
<html><body>
<ul class="search-list">
  <li class="search-list__item search-list__item--listing" data-listing-id="101">
    <h2 class="listing-search-item__title">
      <a class="listing-search-item__link listing-search-item__link--title" href="/apartment-for-rent/amsterdam/101/herengracht">Apartment Herengracht</a>
    </h2>
    <div class="listing-search-item__price">€1,750 per month</div>
    <div class="listing-search-item__location">1016 BZ Amsterdam (Grachtengordel)</div>
  </li>
  <li class="search-list__item search-list__item--listing" id="listing-202">
    <h2 class="listing-search-item__title">
      <a class="listing-search-item__link listing-search-item__link--title" href="https://www.pararius.com/apartment-for-rent/amsterdam/202/keizersgracht">Apartment Keizersgracht</a>
    </h2>
    <div class="listing-search-item__price">€2,100 per month</div>
    <div class="listing-search-item__location">1015 CJ Amsterdam</div>
  </li>
  <li class="search-list__item search-list__item--advertisement">not a listing</li>
</ul>
</body></html>`

func TestParariusExtract(t *testing.T) {
	raws, err := NewPararius().Extract([]byte(parariusFixture))
	require.NoError(t, err)
	require.Len(t, raws, 2, "advertisement items are not listings")

	first := raws[0]
	assert.Equal(t, "101", first.CandidateID)
	assert.Equal(t, "Apartment Herengracht", first.Title)
	assert.Equal(t, "€1,750 per month", first.Price)
	assert.Equal(t, "1016 BZ Amsterdam (Grachtengordel)", first.Address)
	assert.Equal(t, "https://www.pararius.com/apartment-for-rent/amsterdam/101/herengracht", first.URL, "relative links absolutized")
	assert.NotEmpty(t, first.RawText)

	second := raws[1]
	assert.Equal(t, "listing-202", second.CandidateID, "id attribute is the fallback")
	assert.Equal(t, "https://www.pararius.com/apartment-for-rent/amsterdam/202/keizersgracht", second.URL, "absolute links untouched")
}

func TestParariusExtractEmptyPage(t *testing.T) {
	raws, err := NewPararius().Extract([]byte(`<html><body><p>Geen resultaten</p></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, raws, "zero listings is a result, not an error")
}
