package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TextPattern is a named free-text matcher applied to a whole document.
// It is decoupled from the structural block parser so heuristic lookups
// like Battery/Weight can run regardless of whether a spec block exists.
type TextPattern struct {
	Key     string
	Pattern *regexp.Regexp
}

// Supplementary patterns scanned on every detail page, in this order.
// Both run after block parsing and overwrite same-named keys.
var SupplementaryPatterns = []TextPattern{
	{Key: "Battery", Pattern: regexp.MustCompile(`(?i)battery`)},
	{Key: "Weight", Pattern: regexp.MustCompile(`(?i)weight`)},
}

var (
	specMarkerPattern = regexp.MustCompile(`(?i)specification`)
	currencyPattern   = regexp.MustCompile(`₱`)
)

// FirstMatch walks the document in order and returns the trimmed text of
// the first text node matching the pattern.
func (p TextPattern) FirstMatch(doc *goquery.Document) (string, bool) {
	for _, root := range doc.Nodes {
		if text, ok := firstMatchingText(root, p.Pattern); ok {
			return text, true
		}
	}
	return "", false
}

// firstMatchingText does a depth-first walk from n looking for a text node
// whose content matches re.
func firstMatchingText(n *html.Node, re *regexp.Regexp) (string, bool) {
	if n.Type == html.TextNode && re.MatchString(n.Data) {
		return strings.TrimSpace(n.Data), true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text, ok := firstMatchingText(c, re); ok {
			return text, true
		}
	}
	return "", false
}

// nextMatchingText returns the trimmed content of the first text node
// strictly after start in document order that matches re.
func nextMatchingText(start *html.Node, re *regexp.Regexp) (string, bool) {
	for n := nextNode(start); n != nil; n = nextNode(n) {
		if n.Type == html.TextNode && re.MatchString(n.Data) {
			return strings.TrimSpace(n.Data), true
		}
	}
	return "", false
}

// nextSiblingText scans the following siblings of start for a text node
// matching re, skipping element siblings.
func nextSiblingText(start *html.Node, re *regexp.Regexp) (string, bool) {
	for n := start.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.TextNode && re.MatchString(n.Data) {
			return strings.TrimSpace(n.Data), true
		}
	}
	return "", false
}

// nextNode advances one step in document order: first child, else next
// sibling, else the next sibling of the nearest ancestor that has one.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// visibleLines collects every non-empty trimmed line of text under n,
// breaking at node boundaries and at newlines inside a text node. Spec
// panels often render all attribute lines as one bare text node, so a
// single segment can carry several lines.
func visibleLines(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		for _, line := range strings.Split(n.Data, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				*lines = append(*lines, line)
			}
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visibleLines(c, lines)
	}
}
