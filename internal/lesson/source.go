package lesson

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var extLanguages = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".mjs":  "javascript",
	".ts":   "typescript",
	".rs":   "rust",
	".java": "java",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".cs":   "csharp",
	".rb":   "ruby",
	".php":  "php",
	".kt":   "kotlin",
	".sh":   "shell",
}

// LanguageForPath guesses a lesson language from a file extension.
func LanguageForPath(path string) string {
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "text"
}

// FromSourceFile builds an ad-hoc lesson from a plain code file. Trailing whitespace is
// trimmed from every line and trailing blank lines are dropped, since neither is visible.
func FromSourceFile(path string, mode Mode, exclude []string) (*Lesson, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only source file.
			_ = cerr
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	base := filepath.Base(path)
	return &Lesson{
		ID:       "file:" + base,
		Title:    base,
		Language: LanguageForPath(path),
		Code:     NormalizeText(strings.Join(lines, "\n")),
		Exclude:  exclude,
		Mode:     mode,
	}, nil
}
