package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterExport(t *testing.T) {
	ds := &Dataset{
		Headers: []string{"ID", "Title", "Status"},
		Rows: [][]string{
			{"evt-001", "Tree Planting", "Completed"},
			{"evt-002", "River, Cleanup", "Upcoming"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter().Export(&buf, ds))

	out := buf.String()
	assert.Contains(t, out, "ID,Title,Status\n")
	assert.Contains(t, out, "\"River, Cleanup\"")
}

func TestCSVExporterNilDataset(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewCSVExporter().Export(&buf, nil))
}
