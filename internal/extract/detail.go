package extract

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jralmeda/pcxscraper/pkg/errors"
)

const (
	specHeadingSelector = "h4, h3, h2, strong"
	specPanelSelector   = "div#ProductTabs-specification, div.product-specifications, div.tab-content"
)

// BlockStrategy locates the specification block on a detail page.
// Like card strategies, the list is ranked and the first hit wins.
type BlockStrategy struct {
	Name string
	Find func(doc *goquery.Document) *goquery.Selection
}

// DefaultBlockStrategies is the ranked strategy list for detail pages:
// a heading mentioning "specification" anchors the block to its parent
// container; failing that, common tab-panel selectors are tried directly.
var DefaultBlockStrategies = []BlockStrategy{
	{
		Name: "spec-heading",
		Find: func(doc *goquery.Document) *goquery.Selection {
			var block *goquery.Selection
			doc.Find(specHeadingSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
				if specMarkerPattern.MatchString(s.Text()) {
					block = s.Parent()
					return false
				}
				return true
			})
			return block
		},
	},
	{
		Name: "spec-panel",
		Find: func(doc *goquery.Document) *goquery.Selection {
			if sel := doc.Find(specPanelSelector); sel.Length() > 0 {
				return sel.First()
			}
			return nil
		},
	},
}

// DetailExtractor extracts specification attributes from a product's
// detail page
type DetailExtractor struct {
	Strategies []BlockStrategy
	Patterns   []TextPattern
}

// NewDetailExtractor creates a detail extractor with the default block
// strategies and supplementary pattern scanners
func NewDetailExtractor() *DetailExtractor {
	return &DetailExtractor{
		Strategies: DefaultBlockStrategies,
		Patterns:   SupplementaryPatterns,
	}
}

// Extract parses a detail page into a specification mapping. Attribute
// lines inside the located block are split at their first colon; the
// supplementary pattern scanners then run over the whole document and may
// add or overwrite keys (last writer wins) even when no block was found.
func (e *DetailExtractor) Extract(body io.Reader) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing(errors.StageDetail, "failed to parse detail page", err)
	}

	specs := make(map[string]string)

	if block := e.findBlock(doc); block != nil {
		parseSpecLines(blockLines(block), specs)
	}

	for _, pattern := range e.Patterns {
		if text, ok := pattern.FirstMatch(doc); ok {
			specs[pattern.Key] = text
		}
	}

	return specs, nil
}

// findBlock tries each block strategy in rank order
func (e *DetailExtractor) findBlock(doc *goquery.Document) *goquery.Selection {
	for _, strategy := range e.Strategies {
		if sel := strategy.Find(doc); sel != nil && sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// blockLines extracts the block's visible text with breaks preserved at
// node boundaries
func blockLines(block *goquery.Selection) []string {
	var lines []string
	for _, node := range block.Nodes {
		visibleLines(node, &lines)
	}
	return lines
}

// parseSpecLines splits colon-delimited attribute lines into the result
// mapping. Lines without a colon are ignored; a repeated key keeps its
// later value.
func parseSpecLines(lines []string, specs map[string]string) {
	for _, line := range lines {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		specs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
}
