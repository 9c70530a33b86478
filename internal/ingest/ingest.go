// Package ingest extracts plain text from uploaded resume files.
//
// Extraction never returns a Go error: failures come back as text starting
// with ErrorMarker, and callers check Usable before storing the result.
package ingest

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	// MaxChars is the number of characters kept from a resume.
	MaxChars = 3000
	// ErrorMarker prefixes every failed extraction.
	ErrorMarker = "Error extracting text"
)

var (
	xmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	paragraphRegex = regexp.MustCompile(`</w:p>`)
)

// ExtractFile reads path and extracts its text by file extension.
func ExtractFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return failure(err)
	}
	return Extract(filepath.Base(path), data)
}

// Extract returns the text of a PDF, DOCX or TXT document named name,
// truncated to MaxChars.
func Extract(name string, data []byte) string {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDocx(data)
	case ".txt":
		text = string(bytes.ToValidUTF8(data, nil))
	default:
		return failure(fmt.Errorf("unsupported file: %s", name))
	}
	if err != nil {
		return failure(err)
	}
	return truncate(text, MaxChars)
}

// Usable reports whether text is real resume content rather than an
// extraction failure or an empty document.
func Usable(text string) bool {
	return strings.TrimSpace(text) != "" && !strings.Contains(text, ErrorMarker)
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return xmlToText(doc.Editable().GetContent()), nil
}

// xmlToText turns WordprocessingML into plain text, one line per paragraph.
func xmlToText(content string) string {
	content = paragraphRegex.ReplaceAllString(content, "\n")
	plain := html.UnescapeString(xmlTagRegex.ReplaceAllString(content, ""))

	var lines []string
	for _, line := range strings.Split(plain, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func failure(err error) string {
	return fmt.Sprintf("%s: %v", ErrorMarker, err)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
