package repository

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

func cmpInt64(a int64, b int64) int {
	return cmp.Compare(a, b)
}

// compareValues orders two column values. Nil sorts before everything else;
// numbers compare numerically, times chronologically, the rest as text.
func compareValues(a any, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func equalValues(stored any, want any) bool {
	if stored == nil || want == nil {
		return stored == nil && want == nil
	}

	if fa, ok := toFloat(stored); ok {
		if fb, ok := toFloat(want); ok {
			return fa == fb
		}
	}

	if ts, ok := stored.(time.Time); ok {
		if tw, ok := want.(time.Time); ok {
			return ts.Equal(tw)
		}
	}

	return fmt.Sprint(stored) == fmt.Sprint(want)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}

	return 0, false
}
