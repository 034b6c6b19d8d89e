package export

import (
	"encoding/json"
	"io"
	"time"

	"salesflow/internal/sales"
	"salesflow/internal/shopify"
)

// RowsDocument is the JSON export envelope. Complete=false marks output
// built from a partial fetch; downstream consumers must not treat the
// numbers as authoritative.
type RowsDocument struct {
	RunID       string      `json:"run_id"`
	GeneratedAt string      `json:"generated_at"`
	Complete    bool        `json:"complete"`
	RowCount    int         `json:"row_count"`
	Rows        []sales.Row `json:"rows"`
}

// WriteRowsJSON writes the normalized rows with run provenance.
func WriteRowsJSON(w io.Writer, rows []sales.Row, runID string, complete bool) error {
	doc := RowsDocument{
		RunID:       runID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Complete:    complete,
		RowCount:    len(rows),
		Rows:        rows,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteOrdersJSON dumps raw orders as indented JSON.
func WriteOrdersJSON(w io.Writer, orders []shopify.Order) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(orders)
}
