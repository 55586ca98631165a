package services

// ValidationError represents a single non-fatal problem found on one row of
// an imported payload. Row is 1-based.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// warningSet collects ValidationErrors in the order they are raised.
type warningSet struct {
	items []ValidationError
}

func (w *warningSet) add(row int, field, message string) {
	w.items = append(w.items, ValidationError{Row: row, Field: field, Message: message})
}

// list never returns nil so JSON output is always an array.
func (w *warningSet) list() []ValidationError {
	if w.items == nil {
		return []ValidationError{}
	}
	return w.items
}

// CountErrorRows returns how many distinct rows carry at least one error.
func CountErrorRows(errs []ValidationError) int {
	rows := make(map[int]bool)
	for _, e := range errs {
		rows[e.Row] = true
	}
	return len(rows)
}
