package domain

// TableStat is a row count for one known table.
type TableStat struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
}

// Column describes one column of a known table.
type Column struct {
	Name     string  `json:"name" db:"column_name"`
	Type     string  `json:"type" db:"data_type"`
	Nullable string  `json:"nullable" db:"is_nullable"`
	Default  *string `json:"default" db:"column_default"`
}
