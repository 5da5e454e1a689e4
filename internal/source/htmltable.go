package source

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/tariffscan/tariffscan/internal/token"
)

// Synthetic cell geometry for HTML tables. Row pitch comfortably exceeds
// the clustering tolerance and column pitch keeps nearest-center bucketing
// unambiguous, so the same reconstruction code handles HTML and PDF input.
const (
	htmlRowPitch = 10.0
	htmlColPitch = 120.0
)

// ParseHTMLTables walks every <table> in the document and emits one token
// per non-empty cell. Each table maps to its own page so sections on
// different tables never cluster together.
func ParseHTMLTables(r io.Reader) ([]token.Token, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var out []token.Token
	page := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "table") {
			page++
			out = append(out, tableTokens(n, page)...)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out, nil
}

func tableTokens(table *html.Node, page int) []token.Token {
	var out []token.Token
	rowIdx := 0
	var walkRows func(*html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "tr") {
			colIdx := 0
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.ElementNode {
					continue
				}
				name := strings.ToLower(c.Data)
				if name != "td" && name != "th" {
					continue
				}
				text := token.Clean(nodeText(c))
				if text != "" {
					out = append(out, token.Token{
						Text: text,
						X:    float64(colIdx) * htmlColPitch,
						Y:    float64(rowIdx) * htmlRowPitch,
						Page: page,
					})
				}
				colIdx++
			}
			rowIdx++
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(table)
	return out
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
			b.WriteString(" ")
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return b.String()
}
