// Package loader discovers policy documents on disk and normalizes every
// supported format down to a single {filename, text} shape for chunking.
package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Document is one loaded source file. It is immutable once loaded and
// discarded after chunking.
type Document struct {
	Filename string
	Text     string

	// Title is the document title when the format carries one
	// (markdown first heading). Empty otherwise; the chunker falls
	// back to a heading scan and then the filename.
	Title string
}

// Stats reports what document discovery found.
type Stats struct {
	Discovered int // files with a recognized extension
	Loaded     int // files actually ingested
}

var allowedExtensions = map[string]bool{
	".md":   true,
	".txt":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

var excludedFilenames = map[string]bool{
	"README.md": true,
	"readme.md": true,
}

// LoadDir loads all supported documents from dir in sorted filename order.
// Hidden files, directories, unrecognized extensions and excluded
// filenames are skipped.
func LoadDir(dir string, log *slog.Logger) ([]Document, Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read document dir: %w", err)
	}

	var docs []Document
	var stats Stats

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !allowedExtensions[ext] {
			continue
		}
		stats.Discovered++
		if excludedFilenames[name] {
			continue
		}

		path := filepath.Join(dir, name)
		doc, err := loadFile(path, name, ext)
		if err != nil {
			return nil, stats, fmt.Errorf("load %s: %w", name, err)
		}
		log.Info("loaded document", "filename", name, "chars", len(doc.Text))
		docs = append(docs, doc)
	}

	stats.Loaded = len(docs)
	return docs, stats, nil
}

func loadFile(path, name, ext string) (Document, error) {
	switch ext {
	case ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return Document{}, err
		}
		return Document{Filename: name, Text: string(data), Title: markdownTitle(data)}, nil
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return Document{}, err
		}
		return Document{Filename: name, Text: string(data)}, nil
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return Document{}, err
		}
		defer f.Close()
		text, err := stripHTML(f)
		if err != nil {
			return Document{}, err
		}
		return Document{Filename: name, Text: text}, nil
	case ".pdf":
		text, err := extractPDF(path)
		if err != nil {
			return Document{}, err
		}
		return Document{Filename: name, Text: text}, nil
	case ".docx":
		text, err := extractDOCX(path)
		if err != nil {
			return Document{}, err
		}
		return Document{Filename: name, Text: text}, nil
	}
	return Document{}, fmt.Errorf("unsupported extension %s", ext)
}
