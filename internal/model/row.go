package model

import (
	"fmt"
	"time"
)

const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Row is one record of a backing table keyed by column name.
type Row map[string]any

func (r Row) ID() string {
	return r.String(FieldID)
}

// String returns the value stored under key formatted for display. Missing
// and nil values yield the empty string.
func (r Row) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// Time returns the value under key as a time. Strings in RFC 3339 form are
// parsed; anything else yields the zero time.
func (r Row) Time(key string) time.Time {
	switch t := r[key].(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}

	return time.Time{}
}

// Clone returns a shallow copy so callers can merge fields without touching
// the source row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}
