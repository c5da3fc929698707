package document

import (
	"path/filepath"
	"strings"
)

// FileTypeText is the tag for paths with no recognized extension.
const FileTypeText = "text"

var builtinFileTypes = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".jsx":   "javascriptreact",
	".tsx":   "typescriptreact",
	".rs":    "rust",
	".rb":    "ruby",
	".java":  "java",
	".c":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".h":     "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".kts":   "kotlin",
	".scala": "scala",
	".html":  "html",
	".htm":   "html",
	".css":   "css",
	".scss":  "scss",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".xml":   "xml",
	".md":    "markdown",
	".sh":    "shellscript",
	".bash":  "shellscript",
	".sql":   "sql",
	".txt":   FileTypeText,
}

// DetectFileType derives a file-type tag from the path's extension.
// overrides take precedence over the built-in table; keys are
// extensions including the dot, matched case-insensitively.
func DetectFileType(path string, overrides map[string]string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return FileTypeText
	}
	for k, v := range overrides {
		if strings.ToLower(k) == ext {
			return v
		}
	}
	if tag, ok := builtinFileTypes[ext]; ok {
		return tag
	}
	return FileTypeText
}
