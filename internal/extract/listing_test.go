package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingBaseURL = "https://pcx.com.ph"

func TestListingExtractorProductCards(t *testing.T) {
	html := `<html><body>
		<div class="product-card">
			<a href="/products/acer-a514">ACER Aspire A514-55-330C</a>
			<span class="price">₱26,999.00</span>
		</div>
		<li class="product-item">
			<a href="https://pcx.com.ph/products/lenovo-v15">Lenovo V15 G4</a>
			<div class="product-price">₱21,495.00</div>
		</li>
	</body></html>`

	extractor := NewListingExtractor(listingBaseURL, nil)
	records, err := extractor.Extract(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "ACER Aspire A514-55-330C", records[0].Name)
	assert.Equal(t, "https://pcx.com.ph/products/acer-a514", records[0].Link, "site-relative link should be rewritten")
	require.NotNil(t, records[0].PricePHP)
	assert.Equal(t, 26999.00, *records[0].PricePHP)

	assert.Equal(t, "Lenovo V15 G4", records[1].Name)
	assert.Equal(t, "https://pcx.com.ph/products/lenovo-v15", records[1].Link, "absolute link should be unchanged")
	require.NotNil(t, records[1].PricePHP)
	assert.Equal(t, 21495.00, *records[1].PricePHP)
}

func TestListingExtractorHeadingFallback(t *testing.T) {
	// No primary card markup at all; every h3 becomes one candidate
	html := `<html><body>
		<h3><a href="/products/hp-15s">HP 15s-fq5111TU</a></h3>
		<h3>ASUS Vivobook Go 15</h3>
	</body></html>`

	extractor := NewListingExtractor(listingBaseURL, nil)
	records, err := extractor.Extract(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, records, 2, "fallback should produce one candidate per heading")

	assert.Equal(t, "HP 15s-fq5111TU", records[0].Name)
	assert.Equal(t, "https://pcx.com.ph/products/hp-15s", records[0].Link)

	// Heading without an anchor: name from the heading's own text, link absent
	assert.Equal(t, "ASUS Vivobook Go 15", records[1].Name)
	assert.Equal(t, "", records[1].Link)
}

func TestListingExtractorPartialCardKept(t *testing.T) {
	// A card with no usable name and no usable link is still a record
	html := `<html><body>
		<div class="product-card"><span class="badge">Out of stock</span></div>
		<div class="product-card">
			<a href="/products/msi-thin">MSI Thin 15</a>
			<span class="money">₱49,995.00</span>
		</div>
	</body></html>`

	extractor := NewListingExtractor(listingBaseURL, nil)
	records, err := extractor.Extract(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "", records[0].Name)
	assert.Equal(t, "", records[0].Link)
	assert.Nil(t, records[0].PricePHP)

	assert.Equal(t, "MSI Thin 15", records[1].Name)
}

func TestListingExtractorSiblingPriceFallback(t *testing.T) {
	// No price element inside the card; a following-sibling text node with
	// a currency symbol is picked up instead.
	html := `<html><body>
		<div class="product-card"><a href="/products/acer-swift">Acer Swift Go 14</a></div>₱47,995.00
	</body></html>`

	extractor := NewListingExtractor(listingBaseURL, nil)
	records, err := extractor.Extract(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].PricePHP)
	assert.Equal(t, 47995.00, *records[0].PricePHP)
}

func TestListingExtractorQuickSpecSnippet(t *testing.T) {
	html := `<html><body>
		<div class="product-card"><a href="/products/acer-a315">Acer Aspire 3</a></div>
		<p>SPECIFICATION Operating System: Windows 11 Home</p>
	</body></html>`

	extractor := NewListingExtractor(listingBaseURL, nil)
	records, err := extractor.Extract(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SPECIFICATION Operating System: Windows 11 Home", records[0].Specs["quick_spec"])
}

func TestListingExtractorOrderPreserved(t *testing.T) {
	html := `<html><body>
		<div class="product-card"><a href="/p/1">First</a></div>
		<div class="product-card"><a href="/p/2">Second</a></div>
		<div class="product-card"><a href="/p/3">Third</a></div>
	</body></html>`

	extractor := NewListingExtractor(listingBaseURL, nil)
	records, err := extractor.Extract(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "First", records[0].Name)
	assert.Equal(t, "Second", records[1].Name)
	assert.Equal(t, "Third", records[2].Name)
}

func TestListingExtractorNoCandidates(t *testing.T) {
	html := `<html><body><p>Nothing for sale here.</p></body></html>`

	extractor := NewListingExtractor(listingBaseURL, nil)
	records, err := extractor.Extract(strings.NewReader(html))
	assert.NoError(t, err)
	assert.Empty(t, records)
}
