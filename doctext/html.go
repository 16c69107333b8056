package doctext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// sanitizer strips scripts, event handlers, and other non-content markup
// before extraction. UGC policy keeps the structural tags the walkers need.
var sanitizer = bluemonday.UGCPolicy()

// FromHTML produces the anchorable text for in-memory HTML.
func FromHTML(data []byte, opts Options) (string, error) {
	opts.defaults()
	_, text, err := fromHTML(data, opts)
	return text, err
}

func fromHTML(data []byte, opts Options) (title, text string, err error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("parse HTML: %w", err)
	}
	title = htmlTitle(doc)

	clean := sanitizer.SanitizeBytes(data)

	if opts.Markdown {
		md, err := newMarkdownConverter().ConvertString(string(clean))
		if err != nil {
			return "", "", fmt.Errorf("convert to markdown: %w", err)
		}
		return title, strings.TrimSpace(md), nil
	}

	body, err := html.Parse(bytes.NewReader(clean))
	if err != nil {
		return "", "", fmt.Errorf("parse sanitized HTML: %w", err)
	}
	return title, visibleText(body), nil
}

func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
}

// htmlTitle extracts the <title> text.
func htmlTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		if n.FirstChild != nil {
			return strings.TrimSpace(n.FirstChild.Data)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := htmlTitle(c); t != "" {
			return t
		}
	}
	return ""
}

// visibleText walks the tree collecting rendered text. Block-level elements
// produce line breaks so the result keeps a stable, reproducible shape;
// the same document must yield the same byte offsets everywhere.
func visibleText(root *html.Node) string {
	var blocks []string
	var current strings.Builder

	flush := func() {
		if b := Normalize(current.String()); b != "" {
			blocks = append(blocks, b)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			current.WriteString(n.Data)
			current.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
				return
			}
		}
		block := n.Type == html.ElementNode && isBlockTag(n.DataAtom)
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	walk(root)
	flush()

	return strings.Join(blocks, "\n")
}

func isBlockTag(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Main,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Pre, atom.Ul, atom.Ol, atom.Li,
		atom.Table, atom.Tr, atom.Td, atom.Th, atom.Dl, atom.Dd, atom.Dt,
		atom.Figure, atom.Figcaption, atom.Br, atom.Hr:
		return true
	}
	return false
}
