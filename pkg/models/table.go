package models

// Row maps a column label to its cell value.
type Row map[string]Cell

// RawTable is one extracted export: an ordered column list plus row-oriented
// records. It is the source of truth before normalization and is treated as
// immutable once built by the ingest layer.
type RawTable struct {
	Name    string   // source key, e.g. "sales" or "hearing_aid_returns"
	Columns []string // declared column order from the export
	Rows    []Row
}

// Clone returns a deep copy so transform steps never mutate the original.
func (t *RawTable) Clone() *RawTable {
	if t == nil {
		return nil
	}
	out := &RawTable{
		Name:    t.Name,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		cp := make(Row, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}

// HasColumn reports whether the table declares the given column label.
func (t *RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
