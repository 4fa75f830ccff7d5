package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go-admin-panel/internal/resource"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// coerce converts a value decoded from JSON, a form or a query string into
// the Go type stored for the field. Empty strings on non-text fields become nil.
func coerce(f resource.Field, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	if s, ok := v.(string); ok && f.Type != resource.FieldText {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		v = s
	}

	switch f.Type {
	case resource.FieldText:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case resource.FieldInt:
		return toInt(v)
	case resource.FieldFloat:
		return toFloat(v)
	case resource.FieldBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			return strconv.ParseBool(b)
		}
	case resource.FieldTimestamp:
		switch t := v.(type) {
		case time.Time:
			return t.UTC(), nil
		case string:
			for _, layout := range timestampLayouts {
				if parsed, err := time.Parse(layout, t); err == nil {
					return parsed.UTC(), nil
				}
			}
			return nil, fmt.Errorf("%q is not a timestamp", t)
		}
	}

	return nil, fmt.Errorf("cannot use %T as %s", v, f.Type)
}

func toInt(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return nil, fmt.Errorf("%v is not a whole number", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	}

	return nil, fmt.Errorf("cannot use %T as int", v)
}

func toFloat(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	}

	return nil, fmt.Errorf("cannot use %T as float", v)
}
