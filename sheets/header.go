package sheets

// headerScanWindow is how many leading rows are scanned for a header.
const headerScanWindow = 5

// detectHeader locates the header row among the first headerScanWindow
// rows: the first row containing a cell recognizable as the competitor
// name column. It returns the row index and the column index mapped for
// each canonical field, first match wins per field.
func detectHeader(rows [][]string) (int, map[field]int, bool) {
	limit := len(rows)
	if limit > headerScanWindow {
		limit = headerScanWindow
	}

	for i := 0; i < limit; i++ {
		columns := mapColumns(rows[i])
		if _, ok := columns[fieldName]; ok {
			return i, columns, true
		}
	}
	return 0, nil, false
}

func mapColumns(row []string) map[field]int {
	columns := make(map[field]int)
	for idx, cell := range row {
		f, ok := matchField(cell)
		if !ok {
			continue
		}
		if _, taken := columns[f]; taken {
			continue
		}
		columns[f] = idx
	}
	return columns
}
