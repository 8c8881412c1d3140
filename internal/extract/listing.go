package extract

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jralmeda/pcxscraper/helpers"
	"jralmeda/pcxscraper/pkg/errors"
)

// Structural selectors for the listing page
const (
	cardSelector    = "div.product-card, li.product-item, div.grid-product"
	headingSelector = "h3"
	priceSelector   = ".price, .product-price, .money"
	anchorSelector  = "a"
	quickSpecKey    = "quick_spec"
)

// CardStrategy locates candidate product cards on a listing page.
// Strategies are ranked; the extractor commits to the first one that
// yields a non-empty selection.
type CardStrategy struct {
	Name string
	Find func(doc *goquery.Document) *goquery.Selection
}

// DefaultCardStrategies is the ranked strategy list for listing pages:
// common e-commerce card markup first, then the degraded one-card-per-
// heading mode.
var DefaultCardStrategies = []CardStrategy{
	{
		Name: "product-card",
		Find: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find(cardSelector)
		},
	},
	{
		Name: "heading-fallback",
		Find: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find(headingSelector)
		},
	},
}

// ListingExtractor extracts candidate product records from a category page
type ListingExtractor struct {
	BaseURL    string
	Strategies []CardStrategy
	Sink       helpers.LoggerInterface
}

// NewListingExtractor creates a listing extractor with the default
// strategy ranking
func NewListingExtractor(baseURL string, sink helpers.LoggerInterface) *ListingExtractor {
	return &ListingExtractor{
		BaseURL:    baseURL,
		Strategies: DefaultCardStrategies,
		Sink:       sink,
	}
}

// Extract parses a listing page and returns one candidate record per
// discovered card, in document order. A card that fails field extraction
// is logged and skipped; it never aborts the other cards. Records with no
// usable name and no usable link are still included.
func (e *ListingExtractor) Extract(body io.Reader) ([]ProductRecord, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing(errors.StageListing, "failed to parse listing page", err)
	}

	cards := e.findCards(doc)
	if cards == nil {
		return nil, nil
	}

	var records []ProductRecord
	cards.Each(func(i int, s *goquery.Selection) {
		record, err := e.processCard(s)
		if err != nil {
			if e.Sink != nil {
				e.Sink.LogError(errors.StageListing, err)
			}
			return
		}
		records = append(records, record)
	})

	return records, nil
}

// findCards tries each strategy in rank order and commits to the first
// non-empty result
func (e *ListingExtractor) findCards(doc *goquery.Document) *goquery.Selection {
	for _, strategy := range e.Strategies {
		if sel := strategy.Find(doc); sel != nil && sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// processCard extracts name, link, price and the optional quick-spec
// snippet from a single candidate card
func (e *ListingExtractor) processCard(s *goquery.Selection) (ProductRecord, error) {
	record := NewProductRecord()

	if len(s.Nodes) == 0 {
		return record, errors.NewParsing(errors.StageListing, "candidate card has no node", nil)
	}

	// Name and link come from the same element: the first anchor
	// descendant, else the card's own heading text.
	nameSel := s.Find(anchorSelector).First()
	if nameSel.Length() == 0 && goquery.NodeName(s) == headingSelector {
		nameSel = s
	}
	if nameSel.Length() > 0 {
		record.Name = strings.TrimSpace(nameSel.Text())
		if href, exists := nameSel.Attr("href"); exists {
			record.Link = e.resolveLink(strings.TrimSpace(href))
		}
	}

	// Price: first matching descendant, else a following-sibling text node
	// carrying a currency symbol. The sibling lookup is best-effort; real
	// markup rarely populates it.
	var rawPrice string
	if priceSel := s.Find(priceSelector).First(); priceSel.Length() > 0 {
		rawPrice = strings.TrimSpace(priceSel.Text())
	} else if text, ok := nextSiblingText(s.Nodes[0], currencyPattern); ok {
		rawPrice = text
	}
	record.PricePHP = ParsePrice(rawPrice)

	// Quick-spec snippet: nearest following text node mentioning the
	// specification marker, if any.
	if snippet, ok := nextMatchingText(s.Nodes[0], specMarkerPattern); ok {
		record.Specs[quickSpecKey] = snippet
	}

	return record, nil
}

// resolveLink rewrites site-relative paths against the base origin
func (e *ListingExtractor) resolveLink(link string) string {
	if strings.HasPrefix(link, "/") {
		return e.BaseURL + link
	}
	return link
}
