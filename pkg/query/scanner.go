package query

import (
	"database/sql"
)

// Row is one record as returned by the data store: an opaque mapping from
// column name to value. The driver hands back []byte for most text-ish
// columns; those are normalised to string here so downstream formatting
// never sees raw bytes.
type Row map[string]interface{}

// ScanRows scans SQL rows into a slice of Row maps
func ScanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]Row, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make(Row)
		for i, col := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = val
			}
		}

		results = append(results, record)
	}

	return results, rows.Err()
}
