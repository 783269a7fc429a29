package source

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/ulikunitz/xz"
	"golang.org/x/net/html"
)

// Decode turns the bytes of a named document into plain text. The format
// is chosen by extension: .xz is decompressed and the inner name decoded
// again, .pdf and .html/.htm are reduced to their text, anything else is
// taken as plain text.
func Decode(name string, r io.Reader) (string, error) {
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return "", fmt.Errorf("open xz stream: %w", err)
		}
		return Decode(strings.TrimSuffix(name, path.Ext(name)), xr)
	case ".pdf":
		raw, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read pdf: %w", err)
		}
		return pdfText(raw)
	case ".html", ".htm":
		return htmlText(r)
	default:
		raw, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read text: %w", err)
		}
		return string(raw), nil
	}
}

func pdfText(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}

func htmlText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String(), nil
}
