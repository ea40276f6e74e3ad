package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Dataset is a tabular payload ready for CSV serialisation.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// CSVExporter streams datasets as RFC 4180 CSV.
type CSVExporter struct{}

// NewCSVExporter constructs a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes the dataset to w, header row first.
func (e *CSVExporter) Export(w io.Writer, ds *Dataset) error {
	if ds == nil {
		return fmt.Errorf("dataset is nil")
	}
	writer := csv.NewWriter(w)
	if len(ds.Headers) > 0 {
		if err := writer.Write(ds.Headers); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	for i, row := range ds.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
