package stats

// Table holds output rows in input order.
type Table struct {
	rows []StatRow
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Append adds a row at the end of the table.
func (t *Table) Append(row StatRow) {
	t.rows = append(t.rows, row)
}

// Rows returns the rows in insertion order.
func (t *Table) Rows() []StatRow {
	return t.rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}
