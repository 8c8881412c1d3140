package export

import (
	"encoding/csv"
	"io"
	"os"

	"jralmeda/pcxscraper/internal/extract"
	"jralmeda/pcxscraper/pkg/errors"
)

// WriteCSV emits the dataset as CSV: header = the unioned, sorted column
// set, one row per record, absent fields rendered as empty strings.
func WriteCSV(w io.Writer, dataset extract.Dataset) error {
	columns := dataset.Columns()

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return errors.New(errors.ErrorTypeValidation, errors.StageExport, "failed to write CSV header", err)
	}

	row := make([]string, len(columns))
	for i := range dataset {
		fields := dataset[i].Fields()
		for j, column := range columns {
			row[j] = fields[column]
		}
		if err := writer.Write(row); err != nil {
			return errors.New(errors.ErrorTypeValidation, errors.StageExport, "failed to write CSV row", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes the dataset to the named file, creating or
// truncating it
func WriteCSVFile(path string, dataset extract.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New(errors.ErrorTypeValidation, errors.StageExport, "failed to create output file", err)
	}
	defer f.Close()

	return WriteCSV(f, dataset)
}
