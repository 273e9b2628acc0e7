package web

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	mdRenderer      goldmark.Markdown
	previewRenderer goldmark.Markdown
	htmlSanitizer   *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	// Tooltip descriptions: no headings and no raw HTML.
	previewRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(headingFlattener{}, 100)),
		),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// RenderMarkdown converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	return render(mdRenderer, src)
}

// RenderPreviewMarkdown converts an issue or merge request description to
// sanitized HTML for a tooltip. Headings render as plain paragraphs and raw
// HTML is dropped.
func RenderPreviewMarkdown(src string) string {
	return render(previewRenderer, src)
}

func render(md goldmark.Markdown, src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// headingFlattener replaces every ATX and setext heading with a paragraph
// holding the same inline content.
type headingFlattener struct{}

func (headingFlattener) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	var headings []*ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			headings = append(headings, h)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, h := range headings {
		para := ast.NewParagraph()
		para.SetLines(h.Lines())
		for c := h.FirstChild(); c != nil; {
			next := c.NextSibling()
			para.AppendChild(para, c)
			c = next
		}
		h.Parent().ReplaceChild(h.Parent(), h, para)
	}
}
