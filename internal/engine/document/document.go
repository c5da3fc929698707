package document

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/dshills/gaptext/internal/engine/gapbuffer"
	"github.com/dshills/gaptext/internal/logging"
)

// Document is an ordered sequence of lines, each held in its own gap buffer.
// A document always has at least one line.
//
// Document is not safe for concurrent use.
type Document struct {
	id       uuid.UUID
	path     string
	fileType string

	lines []*gapbuffer.GapBuffer

	lineEnding LineEnding
	stripCR    bool

	// Saved state
	fingerprint uint64
	modTime     time.Time

	// Configuration
	fs        FileSystem
	fileTypes map[string]string
	chunkSize int
	fileMode  fs.FileMode
	policy    LineEndingPolicy
	logger    *logging.Logger
}

func newDocument(opts []Option) *Document {
	d := &Document{
		id:        uuid.New(),
		fs:        OSFS{},
		chunkSize: gapbuffer.DefaultChunkSize,
		fileMode:  DefaultFileMode,
		policy:    LineEndingsPreserve,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("document").WithField("doc", d.id.String())
	return d
}

// Load reads the file at path and splits it into lines on '\n'.
//
// "abc\n" yields the lines "abc" and "", and an empty file yields a
// single empty line. Read failures are returned as an *OperationError
// matching ErrLoad and the underlying error.
func Load(path string, opts ...Option) (*Document, error) {
	d := newDocument(opts)
	d.path = path
	d.fileType = DetectFileType(path, d.fileTypes)

	data, err := d.fs.ReadFile(path)
	if err != nil {
		d.logger.Warn("load %s: %v", path, err)
		return nil, newOperationError("load", path, ErrLoad, err)
	}

	d.setContent(data)
	d.markSaved(data)
	d.logger.WithFields(map[string]any{
		"path":   path,
		"lines":  len(d.lines),
		"ending": string(d.lineEnding),
	}).Debug("loaded")
	return d, nil
}

// FromString creates a document without a backing file.
// Save fails with ErrNoPath until SaveAs assigns one.
func FromString(text string, opts ...Option) *Document {
	d := newDocument(opts)
	d.fileType = FileTypeText
	data := []byte(text)
	d.setContent(data)
	d.fingerprint = xxh3.Hash(data)
	return d
}

// setContent replaces all lines with the split of data.
func (d *Document) setContent(data []byte) {
	d.lineEnding = DetectLineEnding(data)
	d.stripCR = d.policy == LineEndingsNormalizeCRLF && d.lineEnding == LineEndingCRLF

	parts := bytes.Split(data, []byte{'\n'})
	lines := make([]*gapbuffer.GapBuffer, len(parts))
	last := len(parts) - 1
	for i, p := range parts {
		// A uniformly CRLF source has a \r before every \n, never after the last.
		if d.stripCR && i < last {
			p = p[:len(p)-1]
		}
		lines[i] = gapbuffer.NewFromBytes(p, d.bufferOptions()...)
	}
	d.lines = lines
}

func (d *Document) markSaved(data []byte) {
	d.fingerprint = xxh3.Hash(data)
	if d.path == "" {
		return
	}
	if info, err := d.fs.Stat(d.path); err == nil {
		d.modTime = info.ModTime()
	}
}

// Reload discards all lines and re-reads the file from disk.
// On failure the document is left unchanged.
func (d *Document) Reload() error {
	if d.path == "" {
		return newOperationError("load", "", ErrLoad, ErrNoPath)
	}
	data, err := d.fs.ReadFile(d.path)
	if err != nil {
		d.logger.Warn("reload %s: %v", d.path, err)
		return newOperationError("load", d.path, ErrLoad, err)
	}
	d.setContent(data)
	d.markSaved(data)
	d.logger.WithField("path", d.path).Debug("reloaded")
	return nil
}

// Save writes the document back to its path, replacing the file's contents.
// Lines are joined with '\n', or "\r\n" when CRLF normalization is active.
func (d *Document) Save() error {
	if d.path == "" {
		return newOperationError("save", "", ErrSave, ErrNoPath)
	}
	return d.saveTo(d.path)
}

// SaveAs writes the document to path and adopts it as the document's path.
func (d *Document) SaveAs(path string) error {
	if path == "" {
		return newOperationError("save", "", ErrSave, ErrNoPath)
	}
	if err := d.saveTo(path); err != nil {
		return err
	}
	d.path = path
	d.fileType = DetectFileType(path, d.fileTypes)
	if info, err := d.fs.Stat(path); err == nil {
		d.modTime = info.ModTime()
	}
	return nil
}

func (d *Document) saveTo(path string) error {
	data := d.Bytes()
	if err := d.fs.WriteFile(path, data, d.fileMode); err != nil {
		d.logger.Error("save %s: %v", path, err)
		return newOperationError("save", path, ErrSave, err)
	}
	if path == d.path {
		d.markSaved(data)
	} else {
		d.fingerprint = xxh3.Hash(data)
	}
	d.logger.WithFields(map[string]any{
		"path":  path,
		"bytes": len(data),
		"lines": len(d.lines),
	}).Info("saved")
	return nil
}

// WriteTo writes the joined document content to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	sep := d.separator()
	var total int64
	for i, line := range d.lines {
		if i > 0 {
			n, err := io.WriteString(w, sep)
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		n, err := line.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes returns the joined raw content, exactly what Save writes.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.Bytes()
}

// Text returns the joined content as a string without UTF-8 replacement.
func (d *Document) Text() string {
	return string(d.Bytes())
}

func (d *Document) separator() string {
	if d.stripCR {
		return "\r\n"
	}
	return "\n"
}

// Metadata

// ID returns the identifier assigned when the document was created.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Path returns the backing file path, or "" if there is none.
func (d *Document) Path() string {
	return d.path
}

// FileType returns the tag derived from the path's extension.
func (d *Document) FileType() string {
	return d.fileType
}

// LineEnding returns the line ending style detected at load.
func (d *Document) LineEnding() LineEnding {
	return d.lineEnding
}

// IsDirty reports whether the content differs from the last load or save.
func (d *Document) IsDirty() bool {
	return xxh3.Hash(d.Bytes()) != d.fingerprint
}

// HasExternalChanges reports whether the file on disk has been modified
// since it was last loaded or saved. A file that no longer exists counts
// as changed.
func (d *Document) HasExternalChanges() (bool, error) {
	if d.path == "" {
		return false, nil
	}
	info, err := d.fs.Stat(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, &OperationError{Op: "stat", Path: d.path, Err: err}
	}
	return !info.ModTime().Equal(d.modTime), nil
}

// Line Access

// LineCount returns the number of lines. It is always at least 1.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns a read-only view of line i.
func (d *Document) Line(i int) (gapbuffer.View, bool) {
	if i < 0 || i >= len(d.lines) {
		return nil, false
	}
	return d.lines[i], true
}

// LineMut returns line i for in-place editing.
func (d *Document) LineMut(i int) (*gapbuffer.GapBuffer, bool) {
	if i < 0 || i >= len(d.lines) {
		return nil, false
	}
	return d.lines[i], true
}

// MaxColumnCount returns the largest character length of any line.
func (d *Document) MaxColumnCount() int {
	maxCols := 0
	for _, line := range d.lines {
		maxCols = max(maxCols, line.CharLen())
	}
	return maxCols
}

// MaxDisplayWidth returns the largest cell width of any line.
func (d *Document) MaxDisplayWidth() int {
	maxWidth := 0
	for _, line := range d.lines {
		maxWidth = max(maxWidth, line.DisplayWidth())
	}
	return maxWidth
}

// ByteOffsetAt converts a character column on row into a byte offset.
// Columns past the end of the line map to its length.
func (d *Document) ByteOffsetAt(row int, col gapbuffer.CharIndex) (gapbuffer.ByteOffset, bool) {
	line, ok := d.Line(row)
	if !ok {
		return 0, false
	}
	return line.ByteOffsetOf(col), true
}

// Line Structure

// SplitLine breaks line row at off. The bytes before off stay on row and
// the rest become a new line at row+1.
// It panics with a *RowError if row is out of range, and with a
// *gapbuffer.RangeError if off is outside the line.
func (d *Document) SplitLine(row int, off gapbuffer.ByteOffset) {
	d.checkRow("split", row)
	line := d.lines[row]

	tail := gapbuffer.NewFromBytes(line.BytesRange(off, gapbuffer.ByteOffset(line.Len())), d.bufferOptions()...)
	// Truncate rejects an invalid off before the line changes.
	line.Truncate(off)

	d.lines = slices.Insert(d.lines, row+1, tail)
}

// MergeWithPrevious appends line row to line row-1 and removes row.
// It returns the byte offset in the previous line where the two were
// joined. On row 0 it does nothing and returns false.
// It panics with a *RowError if row is out of range.
func (d *Document) MergeWithPrevious(row int) (gapbuffer.ByteOffset, bool) {
	d.checkRow("merge", row)
	if row == 0 {
		return 0, false
	}
	return d.merge(row - 1), true
}

// MergeWithNext appends line row+1 to line row and removes row+1.
// On the last row it does nothing and returns false.
// It panics with a *RowError if row is out of range.
func (d *Document) MergeWithNext(row int) (gapbuffer.ByteOffset, bool) {
	d.checkRow("merge", row)
	if row == len(d.lines)-1 {
		return 0, false
	}
	return d.merge(row), true
}

// merge joins line row+1 onto line row.
func (d *Document) merge(row int) gapbuffer.ByteOffset {
	dst := d.lines[row]
	joinAt := gapbuffer.ByteOffset(dst.Len())
	dst.Insert(joinAt, d.lines[row+1].Bytes())
	d.lines = slices.Delete(d.lines, row+1, row+2)
	return joinAt
}

// ReplaceLine replaces the content of line row with text.
func (d *Document) ReplaceLine(row int, text string) {
	d.checkRow("replace", row)
	d.checkText("replace", row, text)
	line := d.lines[row]
	line.Reset()
	line.InsertString(0, text)
}

// InsertLine inserts a new line holding text before row.
// row may equal LineCount to append.
func (d *Document) InsertLine(row int, text string) {
	if row < 0 || row > len(d.lines) {
		panic(&RowError{Op: "insert", Row: row, Lines: len(d.lines), Err: ErrRowOutOfRange})
	}
	d.checkText("insert", row, text)
	d.lines = slices.Insert(d.lines, row, gapbuffer.New(text, d.bufferOptions()...))
}

// RemoveLine deletes line row. Removing the only line empties it instead.
func (d *Document) RemoveLine(row int) {
	d.checkRow("remove", row)
	if len(d.lines) == 1 {
		d.lines[0].Reset()
		return
	}
	d.lines = slices.Delete(d.lines, row, row+1)
}

func (d *Document) checkRow(op string, row int) {
	if row < 0 || row >= len(d.lines) {
		panic(&RowError{Op: op, Row: row, Lines: len(d.lines), Err: ErrRowOutOfRange})
	}
}

func (d *Document) checkText(op string, row int, text string) {
	if strings.IndexByte(text, '\n') >= 0 {
		panic(&RowError{Op: op, Row: row, Lines: len(d.lines), Err: ErrEmbeddedNewline})
	}
}
