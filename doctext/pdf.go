package doctext

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF pulls the text layer out of a PDF. Pages are joined with
// blank lines; the first non-empty line doubles as the title.
func extractPDF(path string) (title, text string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return "", "", fmt.Errorf("pdfcpu read: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		if pt := pageText(ctx, pageNr); pt != "" {
			pages = append(pages, pt)
		}
	}
	if len(pages) == 0 {
		return "", "", fmt.Errorf("no text content in PDF")
	}

	text = strings.Join(pages, "\n\n")
	for _, line := range strings.Split(pages[0], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			title = line
			if len(title) > 200 {
				title = title[:200]
			}
			break
		}
	}
	return title, text, nil
}

func pageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return streamText(data)
}

// pdfStringRe matches PDF string literals: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// streamText scans content-stream operators for shown text. Tj, TJ and '
// carry string literals; Td/TD/T* only move the text cursor and become
// whitespace.
func streamText(data []byte) string {
	var sb strings.Builder
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if s := decodePDFString(m[1]); s != "" {
					sb.WriteByte('\n')
					sb.WriteString(s)
				}
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}
	return cleanStreamText(sb.String())
}

// decodePDFString resolves PDF literal escapes, including octal codes.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch c := raw[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(c)
		default:
			if c >= '0' && c <= '7' {
				val := int(c - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}

func cleanStreamText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
