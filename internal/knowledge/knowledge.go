// ABOUTME: Loads knowledge corpus source files and the bot rules file
// ABOUTME: Missing or unreadable files degrade to empty text instead of failing
package knowledge

import (
	"os"
	"path/filepath"
	"strings"
)

// SourceDocument is one raw knowledge file before chunking.
type SourceDocument struct {
	Source string
	Text   string
}

// readTextFile returns the file contents, or "" when the file is missing
// or unreadable. A missing knowledge file is a configuration gap, not a
// fatal error; it simply contributes no chunks.
func readTextFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// LoadFiles reads the named files from dir, preserving order.
func LoadFiles(dir string, names []string) []SourceDocument {
	docs := make([]SourceDocument, 0, len(names))
	for _, name := range names {
		docs = append(docs, SourceDocument{
			Source: name,
			Text:   readTextFile(filepath.Join(dir, name)),
		})
	}
	return docs
}

// LoadBotRules reads the system persona rules file, trimmed.
func LoadBotRules(dir, name string) string {
	return strings.TrimSpace(readTextFile(filepath.Join(dir, name)))
}
