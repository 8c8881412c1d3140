package extract

import (
	"sort"
	"strconv"
)

// Reserved column names for the identity fields of a record. Detail-page
// attributes never overwrite these on merge.
const (
	FieldName     = "name"
	FieldLink     = "link"
	FieldPricePHP = "price_php"
)

// ProductRecord represents one scraped product. Empty Name/Link and nil
// PricePHP mean the value is absent; partial records are valid.
type ProductRecord struct {
	Name     string            `json:"name,omitempty"`
	Link     string            `json:"link,omitempty"`
	PricePHP *float64          `json:"price_php,omitempty"`
	Specs    map[string]string `json:"specs,omitempty"`
}

// NewProductRecord creates an empty record
func NewProductRecord() ProductRecord {
	return ProductRecord{Specs: make(map[string]string)}
}

// Fields flattens the record into its exported column view. The three
// identity columns are always present; absent values render as empty.
func (r *ProductRecord) Fields() map[string]string {
	fields := make(map[string]string, len(r.Specs)+3)
	for k, v := range r.Specs {
		fields[k] = v
	}
	fields[FieldName] = r.Name
	fields[FieldLink] = r.Link
	if r.PricePHP != nil {
		fields[FieldPricePHP] = strconv.FormatFloat(*r.PricePHP, 'f', -1, 64)
	} else {
		fields[FieldPricePHP] = ""
	}
	return fields
}

// Dataset is the ordered sequence of scraped records, in listing-page order
type Dataset []ProductRecord

// Columns returns the union of all field names across the dataset, sorted
// lexicographically. Call only after the full dataset is assembled.
func (d Dataset) Columns() []string {
	seen := make(map[string]struct{})
	for i := range d {
		for k := range d[i].Fields() {
			seen[k] = struct{}{}
		}
	}
	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	return columns
}
