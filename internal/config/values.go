package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dshills/gaptext/internal/config/loader"
)

// values reads typed settings out of a merged configuration map.
// Missing keys leave the destination untouched.
type values map[string]any

func (v values) String(key string, dst *string) error {
	val, ok := loader.GetByPath(v, key)
	if !ok {
		return nil
	}
	s, ok := val.(string)
	if !ok {
		return &TypeError{Key: key, Expected: "string", Actual: fmt.Sprintf("%T", val)}
	}
	*dst = s
	return nil
}

func (v values) Int(key string, dst *int) error {
	val, ok := loader.GetByPath(v, key)
	if !ok {
		return nil
	}
	switch n := val.(type) {
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	default:
		return &TypeError{Key: key, Expected: "integer", Actual: fmt.Sprintf("%T", val)}
	}
	return nil
}

// Duration accepts duration strings (e.g., "500ms") and integers (milliseconds).
func (v values) Duration(key string, dst *time.Duration) error {
	val, ok := loader.GetByPath(v, key)
	if !ok {
		return nil
	}
	switch d := val.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return &ValidationError{Key: key, Value: d, Reason: err.Error()}
		}
		*dst = parsed
	case int64:
		*dst = time.Duration(d) * time.Millisecond
	case time.Duration:
		*dst = d
	default:
		return &TypeError{Key: key, Expected: "duration", Actual: fmt.Sprintf("%T", val)}
	}
	return nil
}

// FileMode accepts an octal string ("0644") or an integer (0o644 in TOML).
func (v values) FileMode(key string, dst *uint32) error {
	val, ok := loader.GetByPath(v, key)
	if !ok {
		return nil
	}
	switch m := val.(type) {
	case string:
		parsed, err := strconv.ParseUint(m, 8, 32)
		if err != nil {
			return &ValidationError{Key: key, Value: m, Reason: "must be an octal permission such as 0644"}
		}
		*dst = uint32(parsed)
	case int64:
		if m < 0 || m > 0o7777 {
			return &ValidationError{Key: key, Value: m, Reason: "must be an octal permission such as 0644"}
		}
		*dst = uint32(m)
	default:
		return &TypeError{Key: key, Expected: "file mode", Actual: fmt.Sprintf("%T", val)}
	}
	return nil
}

func (v values) StringMap(key string, dst *map[string]string) error {
	val, ok := loader.GetByPath(v, key)
	if !ok {
		return nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return &TypeError{Key: key, Expected: "table", Actual: fmt.Sprintf("%T", val)}
	}
	out := make(map[string]string, len(m))
	for k, raw := range m {
		s, ok := raw.(string)
		if !ok {
			return &TypeError{Key: key + "." + k, Expected: "string", Actual: fmt.Sprintf("%T", raw)}
		}
		out[k] = s
	}
	*dst = out
	return nil
}
