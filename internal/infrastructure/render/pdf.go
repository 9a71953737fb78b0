package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	pdfFont     = "Helvetica"
	pdfBaseSize = 10.0
	pdfLineH    = 5.0
)

// PDF renders markdown into a PDF document.
func PDF(markdown, title string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()
	doc.SetFont(pdfFont, "", pdfBaseSize)

	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
	source := []byte(markdown)
	root := md.Parser().Parse(text.NewReader(source))

	r := &pdfRenderer{doc: doc, source: source}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		r.renderBlock(n)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfRenderer struct {
	doc    *fpdf.Fpdf
	source []byte
}

func (r *pdfRenderer) renderBlock(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		size := pdfBaseSize + float64(2*(4-min(node.Level, 3)))
		r.doc.SetFont(pdfFont, "B", size)
		r.doc.MultiCell(0, pdfLineH+2, r.text(node), "", "L", false)
		r.doc.SetFont(pdfFont, "", pdfBaseSize)
		r.doc.Ln(1)
	case *ast.Paragraph, *ast.TextBlock:
		r.doc.MultiCell(0, pdfLineH, r.text(node), "", "L", false)
		r.doc.Ln(1)
	case *ast.List:
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			r.doc.MultiCell(0, pdfLineH, "- "+r.text(item), "", "L", false)
		}
		r.doc.Ln(1)
	case *extast.Table:
		r.renderTable(node)
	default:
		if txt := r.text(n); txt != "" {
			r.doc.MultiCell(0, pdfLineH, txt, "", "L", false)
			r.doc.Ln(1)
		}
	}
}

func (r *pdfRenderer) renderTable(table *extast.Table) {
	pageWidth, _ := r.doc.GetPageSize()
	left, _, right, _ := r.doc.GetMargins()
	usable := pageWidth - left - right

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, r.text(cell))
		}
		if len(cells) == 0 {
			continue
		}
		if _, ok := row.(*extast.TableHeader); ok {
			r.doc.SetFont(pdfFont, "B", pdfBaseSize)
		}
		width := usable / float64(len(cells))
		for _, cell := range cells {
			r.doc.CellFormat(width, pdfLineH+2, cell, "1", 0, "L", false, 0, "")
		}
		r.doc.Ln(pdfLineH + 2)
		r.doc.SetFont(pdfFont, "", pdfBaseSize)
	}
	r.doc.Ln(2)
}

// text flattens all inline text below a node.
func (r *pdfRenderer) text(n ast.Node) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := node.(*ast.Text); ok {
			buf.Write(t.Segment.Value(r.source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
