package dispatch

import "encoding/json"

// Kind discriminates a Result.
type Kind int

const (
	// KindNone means no query has produced anything. It is not an empty row set.
	KindNone Kind = iota
	KindRows
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindRows:
		return "rows"
	case KindError:
		return "error"
	default:
		return "none"
	}
}

// Result is what a run hands to the result grid.
type Result struct {
	Kind    Kind
	Rows    []Row
	Message string
}

// None is the empty state before any run.
func None() Result {
	return Result{Kind: KindNone}
}

// RowsResult wraps rows. A nil slice still yields KindRows with zero rows.
func RowsResult(rows []Row) Result {
	return Result{Kind: KindRows, Rows: rows}
}

// ErrorResult wraps a user-facing error message.
func ErrorResult(msg string) Result {
	return Result{Kind: KindError, Message: msg}
}

// Columns returns the column names taken from the first row's keys.
func (r Result) Columns() []string {
	if r.Kind != KindRows || len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[0].Keys()
}

// HasRows reports whether the result carries at least one row.
func (r Result) HasRows() bool {
	return r.Kind == KindRows && len(r.Rows) > 0
}

// MarshalJSON uses the HTTP API wire shape: an array of row objects, an
// {"error": msg} object, or null.
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindRows:
		if r.Rows == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.Rows)
	case KindError:
		return json.Marshal(map[string]string{"error": r.Message})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the shapes produced by MarshalJSON.
func (r *Result) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*r = None()
	case []any:
		var rows []Row
		if err := json.Unmarshal(b, &rows); err != nil {
			return err
		}
		*r = RowsResult(rows)
	case map[string]any:
		msg, _ := v["error"].(string)
		*r = ErrorResult(msg)
	default:
		*r = None()
	}
	return nil
}
