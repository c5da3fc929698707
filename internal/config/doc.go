// Package config resolves gaptext settings.
//
// Settings come from three layers, each overriding the one before:
//
//  1. Built-in defaults (Default)
//  2. A TOML file (WithFile)
//  3. GAPTEXT_* environment variables
//
// Example file:
//
//	[buffer]
//	chunk_size = 64
//
//	[document]
//	line_endings = "preserve"   # or "normalize-crlf"
//	file_mode = "0644"
//
//	[document.file_types]
//	".tmpl" = "gotemplate"
//
//	[logging]
//	level = "info"
//
//	[watch]
//	debounce = "100ms"
//
// The resolved Config converts itself into document and watcher options.
package config
