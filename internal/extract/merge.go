package extract

// reservedFields are the identity columns a detail page can never overwrite
var reservedFields = map[string]struct{}{
	FieldName:     {},
	FieldLink:     {},
	FieldPricePHP: {},
}

// MergeSpecs applies detail-page attributes onto a listing record. Detail
// keys win on collision with listing spec keys of the same name; the three
// reserved identity fields always keep their listing-stage values.
func MergeSpecs(record *ProductRecord, detail map[string]string) {
	if record.Specs == nil {
		record.Specs = make(map[string]string, len(detail))
	}
	for key, value := range detail {
		if _, reserved := reservedFields[key]; reserved {
			continue
		}
		record.Specs[key] = value
	}
}
