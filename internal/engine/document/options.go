package document

import (
	"io/fs"

	"github.com/dshills/gaptext/internal/engine/gapbuffer"
	"github.com/dshills/gaptext/internal/logging"
)

// DefaultFileMode is used when Save creates a file that does not exist yet.
const DefaultFileMode fs.FileMode = 0o644

// Option configures a Document during creation.
type Option func(*Document)

// WithFileSystem sets the file system used by Load, Save and Reload.
func WithFileSystem(fsys FileSystem) Option {
	return func(d *Document) {
		if fsys != nil {
			d.fs = fsys
		}
	}
}

// WithChunkSize sets the growth granularity of every line buffer.
func WithChunkSize(size int) Option {
	return func(d *Document) {
		if size > 0 {
			d.chunkSize = size
		}
	}
}

// WithLineEndingPolicy sets how carriage returns are handled.
func WithLineEndingPolicy(policy LineEndingPolicy) Option {
	return func(d *Document) {
		d.policy = policy
	}
}

// WithFileTypes adds extension to file-type mappings, e.g. ".tmpl": "gotemplate".
func WithFileTypes(types map[string]string) Option {
	return func(d *Document) {
		d.fileTypes = types
	}
}

// WithFileMode sets the permissions used when Save creates a new file.
func WithFileMode(mode fs.FileMode) Option {
	return func(d *Document) {
		d.fileMode = mode
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

func (d *Document) bufferOptions() []gapbuffer.Option {
	return []gapbuffer.Option{gapbuffer.WithChunkSize(d.chunkSize)}
}
