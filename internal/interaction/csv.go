package interaction

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/funny233-github/paticle-life/internal/particle"
)

// LoadError reports a malformed interaction matrix source. A failed
// load never touches an existing table: Load builds a fresh table and
// returns it only when every cell parsed.
type LoadError struct {
	Row     int // 1-based CSV row, 0 when the failure is not row-local
	Message string
}

func (e *LoadError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("interaction matrix: row %d: %s", e.Row, e.Message)
	}
	return "interaction matrix: " + e.Message
}

// Load reads a full interaction matrix from CSV. The expected shape is
// a header row whose first cell is ignored followed by one recognized
// type label per column, then one row per source type: the row label
// first, then one numeric coefficient per column. Row and column
// labels may appear in any order but each label must appear exactly
// once on both axes, so the result always covers every type pair.
// The cell in row S, column T becomes Get(T, S).
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &LoadError{Message: err.Error()}
	}
	if len(records) != particle.TypeCount+1 {
		return nil, &LoadError{Message: fmt.Sprintf("expected %d rows (header + one per type), got %d", particle.TypeCount+1, len(records))}
	}

	header := records[0]
	if len(header) != particle.TypeCount+1 {
		return nil, &LoadError{Row: 1, Message: fmt.Sprintf("expected %d columns, got %d", particle.TypeCount+1, len(header))}
	}

	var colSeen [particle.TypeCount]bool
	cols := make([]particle.Type, particle.TypeCount)
	for i, label := range header[1:] {
		t, err := particle.ParseType(label)
		if err != nil {
			return nil, &LoadError{Row: 1, Message: err.Error()}
		}
		if colSeen[t] {
			return nil, &LoadError{Row: 1, Message: fmt.Sprintf("duplicate column label %q", label)}
		}
		colSeen[t] = true
		cols[i] = t
	}

	table := New()
	var rowSeen [particle.TypeCount]bool
	for ri, record := range records[1:] {
		row := ri + 2 // CSV row number for error messages
		if len(record) != particle.TypeCount+1 {
			return nil, &LoadError{Row: row, Message: fmt.Sprintf("expected %d columns, got %d", particle.TypeCount+1, len(record))}
		}
		source, err := particle.ParseType(record[0])
		if err != nil {
			return nil, &LoadError{Row: row, Message: err.Error()}
		}
		if rowSeen[source] {
			return nil, &LoadError{Row: row, Message: fmt.Sprintf("duplicate row label %q", record[0])}
		}
		rowSeen[source] = true

		for ci, cell := range record[1:] {
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &LoadError{Row: row, Message: fmt.Sprintf("column %q: non-numeric cell %q", cols[ci], cell)}
			}
			table.Set(cols[ci], source, value)
		}
	}

	return table, nil
}

// LoadFile reads an interaction matrix CSV from disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Save writes the table in the format Load reads, with labels in
// ordinal order.
func Save(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, particle.TypeCount+1)
	header = append(header, "")
	for _, tt := range particle.AllTypes() {
		header = append(header, tt.String())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, source := range particle.AllTypes() {
		row := make([]string, 0, particle.TypeCount+1)
		row = append(row, source.String())
		for _, target := range particle.AllTypes() {
			row = append(row, strconv.FormatFloat(t.Get(target, source), 'f', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveFile writes the table as CSV to disk.
func SaveFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
