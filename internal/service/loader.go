package service

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"docindex/internal/domain"
	"docindex/internal/logger"
)

var supportedExts = map[string]bool{".txt": true, ".md": true, ".pdf": true}

// Supported reports whether path has an extension LoadDocuments can read.
func Supported(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

// LoadDocuments expands glob patterns and directories in paths and reads
// every supported file. The document id is the file's base name. Documents
// are returned sorted by path, each file at most once.
func LoadDocuments(paths []string) ([]domain.Document, error) {
	files := map[string]struct{}{}
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if err := collect(m, files); err != nil {
				return nil, err
			}
		}
	}

	sorted := make([]string, 0, len(files))
	for f := range files {
		sorted = append(sorted, f)
	}
	sort.Strings(sorted)

	docs := make([]domain.Document, 0, len(sorted))
	for _, path := range sorted {
		content, err := readText(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, domain.Document{ID: filepath.Base(path), Path: path, Content: content})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no .txt, .md or .pdf documents found", domain.ErrInvalidInput)
	}
	return docs, nil
}

func collect(path string, files map[string]struct{}) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		if Supported(path) {
			files[filepath.Clean(path)] = struct{}{}
		} else {
			logger.Debug("skipping unsupported file %s", path)
		}
		return nil
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && Supported(p) {
			files[filepath.Clean(p)] = struct{}{}
		}
		return nil
	})
}

func readText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readPDF(path string) (string, error) {
	f, rdr, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := rdr.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, b); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
