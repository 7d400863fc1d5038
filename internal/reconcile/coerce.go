package reconcile

import (
	"encoding/json"
	"math"
	"strings"
)

// toBool reads a flag. Numbers count as true only when equal to 1.
func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "on", "yes":
			return true, true
		case "0", "false", "off", "no":
			return false, true
		}
		return false, false
	}
	if n, ok := toInt(v); ok {
		return n == 1, true
	}
	return false, false
}

// toGoal accepts a number or a decimal string read with atoi rules.
func toGoal(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return atoi(s), true
	}
	return toInt(v)
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint:
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case uint64:
		if x > math.MaxInt32 {
			return math.MaxInt32, true
		}
		return int(x), true
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), true
		}
		if f, err := x.Float64(); err == nil {
			return fromFloat(f)
		}
	}
	return 0, false
}

// fromFloat truncates f, saturating at the int32 range.
func fromFloat(f float64) (int, bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case f > math.MaxInt32:
		return math.MaxInt32, true
	case f < math.MinInt32:
		return math.MinInt32, true
	}
	return int(f), true
}

// atoi parses leading whitespace, an optional sign and the digits that
// follow; anything after is dropped and no digits read as 0. Values
// saturate at the int32 range.
func atoi(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > math.MaxInt32 {
			n = math.MaxInt32
			break
		}
	}
	if neg {
		return -n
	}
	return n
}

// Int reads a transport-decoded number.
func Int(v any) (int, bool) { return toInt(v) }

// Bool reads a transport-decoded flag with the same rules as config values.
func Bool(v any) (bool, bool) { return toBool(v) }
