package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix shared by all gaptext environment variables.
const EnvPrefix = "GAPTEXT_"

// EnvLoader loads configuration from environment variables.
// Only mapped variables are read; each maps to a dot-separated config path.
type EnvLoader struct {
	mapping map[string]string // Env var -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a loader with the default gaptext mappings.
func NewEnvLoader() *EnvLoader {
	return &EnvLoader{
		mapping: DefaultEnvMapping(),
		lookup:  os.LookupEnv,
	}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		mapping: mapping,
		lookup:  os.LookupEnv,
	}
}

// DefaultEnvMapping returns the default environment variable mappings.
func DefaultEnvMapping() map[string]string {
	return map[string]string{
		EnvPrefix + "CHUNK_SIZE":     "buffer.chunk_size",
		EnvPrefix + "LINE_ENDINGS":   "document.line_endings",
		EnvPrefix + "FILE_MODE":      "document.file_mode",
		EnvPrefix + "LOG_LEVEL":      "logging.level",
		EnvPrefix + "WATCH_DEBOUNCE": "watch.debounce",
	}
}

// Load reads the mapped environment variables into a configuration map.
// Empty values are treated as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			SetByPath(config, path, parseValue(val))
		}
	}
	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// parseValue returns an int64 for base-10 integers and the string otherwise.
// Numbers with a leading zero stay strings so octal modes survive.
// Typed accessors convert further where a setting needs it.
func parseValue(s string) any {
	s = strings.TrimSpace(s)
	if len(s) > 1 && s[0] == '0' {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}

// SetByPath sets a value in a nested map using a dot-separated path.
// Creates intermediate maps as needed.
func SetByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}

// GetByPath navigates a nested map using a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}

	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		val, exists := m[part]
		if !exists {
			return nil, false
		}
		current = val
	}

	return current, true
}
