package document

import (
	"errors"
	"io/fs"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files    map[string]memFile
	clock    time.Time
	writeErr error
}

type memFile struct {
	data    []byte
	modTime time.Time
}

func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]memFile),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddFile stores content at path and advances the clock, so every write
// gets a distinct modification time.
func (m *MemFS) AddFile(path string, content string) {
	m.clock = m.clock.Add(time.Second)
	m.files[path] = memFile{data: []byte(content), modTime: m.clock}
}

func (m *MemFS) Content(path string) (string, bool) {
	f, ok := m.files[path]
	return string(f.data), ok
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	f, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), f.data...), nil
}

func (m *MemFS) WriteFile(path string, data []byte, _ fs.FileMode) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.AddFile(path, string(data))
	return nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	f, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return &memFileInfo{name: path, size: int64(len(f.data)), modTime: f.modTime}, nil
}

type memFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return f.size }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return f.modTime }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

var errDiskFull = errors.New("disk full")
