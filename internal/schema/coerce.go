package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// intBound caps coerced JSON numbers; float64-to-int conversion is
// unspecified outside the int range.
const intBound = 1 << 31

// Int coerces JSON numbers and decimal strings (query parameters) to int.
func Int(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || v < -intBound || v > intBound {
			return nil, errors.New("must be an integer")
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.New("must be an integer")
		}
		return n, nil
	default:
		return nil, errors.New("must be an integer")
	}
}

// String coerces value to a trimmed string.
func String(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, errors.New("must be a string")
	}
	return strings.TrimSpace(s), nil
}

// Bool accepts JSON booleans and the query-string forms of true/false.
func Bool(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.New("must be a boolean")
		}
		return b, nil
	default:
		return nil, errors.New("must be a boolean")
	}
}

// StringList coerces a JSON array of strings or a comma-separated query
// value to []string. Empty elements are dropped.
func StringList(value any) (any, error) {
	switch v := value.(type) {
	case []string:
		return compact(v), nil
	case string:
		return compact(strings.Split(v, ",")), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("must be a list of strings")
			}
			out = append(out, s)
		}
		return compact(out), nil
	default:
		return nil, fmt.Errorf("must be a list of strings")
	}
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
