package config

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/dshills/gaptext/internal/config/loader"
	"github.com/dshills/gaptext/internal/engine/document"
	"github.com/dshills/gaptext/internal/logging"
	"github.com/dshills/gaptext/internal/project/watcher"
)

// Config is the resolved gaptext configuration.
type Config struct {
	Buffer   BufferConfig
	Document DocumentConfig
	Logging  LoggingConfig
	Watch    WatchConfig
}

// BufferConfig holds gap buffer settings ([buffer]).
type BufferConfig struct {
	// ChunkSize is the growth granularity of line buffers in bytes.
	ChunkSize int
}

// DocumentConfig holds document settings ([document]).
type DocumentConfig struct {
	// LineEndings is "preserve" or "normalize-crlf".
	LineEndings string
	// FileMode is the permission used when saving creates a file.
	FileMode fs.FileMode
	// FileTypes maps extensions (".tmpl") to file-type tags.
	FileTypes map[string]string
}

// LoggingConfig holds logging settings ([logging]).
type LoggingConfig struct {
	Level string
}

// WatchConfig holds file watcher settings ([watch]).
type WatchConfig struct {
	Debounce time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Buffer: BufferConfig{
			ChunkSize: 64,
		},
		Document: DocumentConfig{
			LineEndings: string(document.LineEndingsPreserve),
			FileMode:    document.DefaultFileMode,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	path string
	fs   loader.FileSystem
	env  loader.Loader
}

// WithFile adds a TOML file layer. A missing file is not an error.
func WithFile(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithFileSystem sets the file system used to read the TOML file.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnvLoader replaces the environment layer. nil disables it.
func WithEnvLoader(l loader.Loader) Option {
	return func(o *options) {
		o.env = l
	}
}

// Load resolves the configuration from defaults, then the TOML file, then
// GAPTEXT_* environment variables, and validates the result.
func Load(opts ...Option) (*Config, error) {
	o := options{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var layers []loader.Loader
	if o.path != "" {
		layers = append(layers, loader.NewTOMLLoaderWithFS(o.fs, o.path))
	}
	if o.env != nil {
		layers = append(layers, o.env)
	}

	merged := make(map[string]any)
	for _, l := range layers {
		m, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg, err := FromMap(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromMap applies the settings in m on top of the defaults.
func FromMap(m map[string]any) (*Config, error) {
	cfg := Default()
	v := values(m)
	mode := uint32(cfg.Document.FileMode)

	for _, err := range []error{
		v.Int("buffer.chunk_size", &cfg.Buffer.ChunkSize),
		v.String("document.line_endings", &cfg.Document.LineEndings),
		v.FileMode("document.file_mode", &mode),
		v.StringMap("document.file_types", &cfg.Document.FileTypes),
		v.String("logging.level", &cfg.Logging.Level),
		v.Duration("watch.debounce", &cfg.Watch.Debounce),
	} {
		if err != nil {
			return nil, err
		}
	}

	cfg.Document.FileMode = fs.FileMode(mode)
	return cfg, nil
}

// Validate checks every setting against its allowed values.
func (c *Config) Validate() error {
	if c.Buffer.ChunkSize <= 0 {
		return &ValidationError{Key: "buffer.chunk_size", Value: c.Buffer.ChunkSize, Reason: "must be positive"}
	}
	if _, ok := document.ParseLineEndingPolicy(c.Document.LineEndings); !ok {
		return &ValidationError{
			Key:    "document.line_endings",
			Value:  c.Document.LineEndings,
			Reason: fmt.Sprintf("must be %q or %q", document.LineEndingsPreserve, document.LineEndingsNormalizeCRLF),
		}
	}
	if c.Document.FileMode&^fs.ModePerm != 0 {
		return &ValidationError{Key: "document.file_mode", Value: c.Document.FileMode, Reason: "must only contain permission bits"}
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return &ValidationError{Key: "logging.level", Value: c.Logging.Level, Reason: "must be debug, info, warn or error"}
	}
	if c.Watch.Debounce < 0 {
		return &ValidationError{Key: "watch.debounce", Value: c.Watch.Debounce, Reason: "must not be negative"}
	}
	return nil
}

// DocumentOptions converts the buffer and document settings into options
// for document.Load.
func (c *Config) DocumentOptions() []document.Option {
	policy, _ := document.ParseLineEndingPolicy(c.Document.LineEndings)
	return []document.Option{
		document.WithChunkSize(c.Buffer.ChunkSize),
		document.WithLineEndingPolicy(policy),
		document.WithFileMode(c.Document.FileMode),
		document.WithFileTypes(c.Document.FileTypes),
	}
}

// WatchOptions converts the watch settings into options for watcher.New.
func (c *Config) WatchOptions() []watcher.Option {
	return []watcher.Option{
		watcher.WithDebounce(c.Watch.Debounce),
	}
}

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}
