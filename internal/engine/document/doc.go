// Package document holds a text file as an ordered list of lines, one
// gap buffer per line.
//
// A Document is created by Load (from a file) or FromString and always
// contains at least one line. Content is split strictly on '\n', so a
// trailing newline produces a trailing empty line and Save reproduces the
// original bytes.
//
// # Line Structure
//
// SplitLine, MergeWithPrevious and MergeWithNext implement Enter,
// Backspace at column 0 and Delete at end of line. The Point-based
// methods (InsertChar, Newline, Backspace, DeleteForward) route cursor
// keystrokes onto those operations and return the new cursor.
//
// # Errors
//
// File failures are returned as *OperationError values matching ErrLoad
// or ErrSave via errors.Is. Invalid row indexes are programming errors and
// panic with a *RowError.
//
// # Line Endings
//
// By default '\r' is ordinary line content. WithLineEndingPolicy
// (LineEndingsNormalizeCRLF) strips it from uniformly CRLF files and
// restores it on save.
package document
