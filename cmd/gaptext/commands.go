package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/dshills/gaptext/internal/config"
	"github.com/dshills/gaptext/internal/engine/document"
	"github.com/dshills/gaptext/internal/engine/gapbuffer"
	"github.com/dshills/gaptext/internal/logging"
	"github.com/dshills/gaptext/internal/project/watcher"
)

// docInfo is the -json form of the info command.
type docInfo struct {
	ID              string `json:"id"`
	Path            string `json:"path"`
	FileType        string `json:"file_type"`
	LineEnding      string `json:"line_ending"`
	Lines           int    `json:"lines"`
	MaxColumns      int    `json:"max_columns"`
	MaxDisplayWidth int    `json:"max_display_width"`
}

func infoCommand(out, errOut io.Writer, path string, args []string, opts []document.Option) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(errOut)
	asJSON := fs.Bool("json", false, "Print as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := document.Load(path, opts...)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(docInfo{
			ID:              doc.ID().String(),
			Path:            doc.Path(),
			FileType:        doc.FileType(),
			LineEnding:      string(doc.LineEnding()),
			Lines:           doc.LineCount(),
			MaxColumns:      doc.MaxColumnCount(),
			MaxDisplayWidth: doc.MaxDisplayWidth(),
		})
	}

	fmt.Fprintf(out, "path:          %s\n", doc.Path())
	fmt.Fprintf(out, "file type:     %s\n", doc.FileType())
	fmt.Fprintf(out, "line ending:   %s\n", doc.LineEnding())
	fmt.Fprintf(out, "lines:         %d\n", doc.LineCount())
	fmt.Fprintf(out, "max columns:   %d\n", doc.MaxColumnCount())
	fmt.Fprintf(out, "display width: %d\n", doc.MaxDisplayWidth())
	return nil
}

func renderCommand(out, errOut io.Writer, path string, args []string, opts []document.Option) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(errOut)
	from := fs.Int("from", 0, "First row to print")
	to := fs.Int("to", -1, "Row after the last one to print (default: end of file)")
	col := fs.Int("col", 0, "First column (in characters) to print")
	width := fs.Int("width", 0, "Number of columns to print (default: rest of line)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := document.Load(path, opts...)
	if err != nil {
		return err
	}

	end := *to
	if end < 0 || end > doc.LineCount() {
		end = doc.LineCount()
	}
	start := max(*from, 0)

	for row := start; row < end; row++ {
		line, _ := doc.Line(row)
		stop := gapbuffer.CharIndex(line.CharLen())
		if *width > 0 {
			stop = gapbuffer.CharIndex(*col + *width)
		}
		fmt.Fprintln(out, line.RenderChars(gapbuffer.CharIndex(*col), stop))
	}
	return nil
}

// checkCommand loads path, saves it to a temporary file next to it and
// compares the bytes.
func checkCommand(out io.Writer, path string, opts []document.Option) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := document.Load(path, opts...)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".gaptext-check-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := doc.SaveAs(tmpPath); err != nil {
		return err
	}
	saved, err := os.ReadFile(tmpPath)
	if err != nil {
		return err
	}

	if !bytes.Equal(original, saved) {
		return fmt.Errorf("round trip mismatch: read %d bytes, wrote %d", len(original), len(saved))
	}
	fmt.Fprintf(out, "ok: %d lines, %d bytes\n", doc.LineCount(), len(saved))
	return nil
}

// watchCommand reloads the document whenever it changes on disk until
// ctx is cancelled.
func watchCommand(ctx context.Context, path string, cfg *config.Config, logger *logging.Logger, opts []document.Option) error {
	doc, err := document.Load(path, opts...)
	if err != nil {
		return err
	}

	w, err := watcher.New(append(cfg.WatchOptions(), watcher.WithLogger(logger))...)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(doc.ID(), doc.Path()); err != nil {
		return err
	}
	logger.Info("watching %s (%d lines)", doc.Path(), doc.LineCount())

	d := watcher.NewDispatcher()
	d.OnEvent(func(e watcher.Event) {
		handleChange(doc, e, logger)
	})
	d.OnError(func(err error) {
		logger.Warn("watch error: %v", err)
	})

	if err := d.Run(ctx, w); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func handleChange(doc *document.Document, e watcher.Event, logger *logging.Logger) {
	log := logger.WithFields(map[string]any{"doc": e.DocID.String(), "op": e.Op.String()})

	changed, err := doc.HasExternalChanges()
	if err != nil {
		log.Warn("stat %s: %v", e.Path, err)
		return
	}
	if !changed {
		return
	}
	if e.Gone() {
		if _, statErr := os.Stat(e.Path); statErr != nil {
			log.Warn("%s was removed", e.Path)
			return
		}
	}

	if err := doc.Reload(); err != nil {
		log.Warn("reload %s: %v", e.Path, err)
		return
	}
	log.Info("reloaded %s (%d lines)", e.Path, doc.LineCount())
}
