// Package doctext turns document files into the anchorable text string.
//
// Supported formats:
//   - .txt:  plain text (line-ending normalization only)
//   - .md:   Markdown (passthrough; annotations anchor on the source)
//   - .html: visible text extraction, or Markdown conversion in Markdown mode
//   - .pdf:  text layer extraction per page
//
// Anchoring is only as good as the text it runs against: two collaborators
// exchanging annotations must derive the identical string from the same
// document, so every extraction path ends in the same normalization.
package doctext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a document type.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatMD   Format = "md"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// Options configures text acquisition.
type Options struct {
	// Markdown converts HTML documents to Markdown instead of extracting
	// plain visible text.
	Markdown bool `json:"markdown" yaml:"markdown"`

	// MaxFileSize is the largest file to process (default: 50 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// Logger for debug messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (o *Options) defaults() {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = 50 * 1024 * 1024
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Document is the anchorable rendition of a file.
type Document struct {
	Path   string `json:"path"`
	Format Format `json:"format"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text"`
}

// Detect returns the document format for a path by extension.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return FormatTXT, nil
	case ".md", ".markdown":
		return FormatMD, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("doctext: unsupported format: %q", filepath.Ext(path))
	}
}

// SupportedFormats lists every format Load accepts.
func SupportedFormats() []string {
	return []string{"txt", "md", "html", "pdf"}
}

// Load reads a document file and produces its anchorable text.
func Load(ctx context.Context, path string, opts Options) (*Document, error) {
	opts.defaults()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("doctext: stat %s: %w", path, err)
	}
	if info.Size() > opts.MaxFileSize {
		return nil, fmt.Errorf("doctext: file too large: %d bytes (max %d)", info.Size(), opts.MaxFileSize)
	}

	format, err := Detect(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts.Logger.Debug("doctext: loading", "path", path, "format", format)

	var title, text string
	switch format {
	case FormatTXT, FormatMD:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("doctext: read %s: %w", path, err)
		}
		text = normalizeLineEndings(string(data))
		if format == FormatMD {
			title = markdownTitle(text)
		}
	case FormatHTML:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("doctext: read %s: %w", path, err)
		}
		title, text, err = fromHTML(data, opts)
		if err != nil {
			return nil, fmt.Errorf("doctext: extract %s: %w", path, err)
		}
	case FormatPDF:
		title, text, err = extractPDF(path)
		if err != nil {
			return nil, fmt.Errorf("doctext: extract %s: %w", path, err)
		}
	}

	return &Document{Path: path, Format: format, Title: title, Text: text}, nil
}

// markdownTitle returns the first top-level heading, if any.
func markdownTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
