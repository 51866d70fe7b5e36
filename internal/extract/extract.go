// Package extract reduces resume files to plain text documents.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// Document is one resume file reduced to raw text. ID is assigned here and
// follows the candidate through structuring and evaluation.
type Document struct {
	ID   string
	Name string
	Path string
	Text string
}

// FileError tags an extraction failure with the file it belongs to.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// File extracts text from a single resume file. PDF, TXT and MD are
// supported; anything else is an error tagged with the path.
func File(path string) (Document, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = pdfText(path)
	case ".txt", ".md":
		text, err = plainText(path)
	default:
		err = fmt.Errorf("unsupported file format %q", filepath.Ext(path))
	}

	if err != nil {
		return Document{}, &FileError{Path: path, Err: err}
	}

	text = CleanText(text)
	if text == "" {
		return Document{}, &FileError{Path: path, Err: fmt.Errorf("no text content found")}
	}

	return Document{
		ID:   uuid.NewString(),
		Name: filepath.Base(path),
		Path: path,
		Text: text,
	}, nil
}

// Files extracts every path, returning the successful documents and one
// tagged error per failed file. A failed file never aborts the batch.
func Files(paths []string) ([]Document, []*FileError) {
	docs := make([]Document, 0, len(paths))
	var failures []*FileError

	for _, path := range paths {
		doc, err := File(path)
		if err != nil {
			var fileErr *FileError
			if !errors.As(err, &fileErr) {
				fileErr = &FileError{Path: path, Err: err}
			}
			failures = append(failures, fileErr)
			continue
		}
		docs = append(docs, doc)
	}

	return docs, failures
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single broken page should not sink the whole file.
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n\n")
	}

	return builder.String(), nil
}

func plainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CleanText trims every line and drops empty ones, normalizing the noisy
// whitespace PDF extraction tends to produce.
func CleanText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
