package extractor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// HTMLPage is a Page over a static HTML document. Nothing renders, so
// WaitElement only checks for presence.
type HTMLPage struct {
	doc *goquery.Document
}

var _ Page = (*HTMLPage)(nil)

// NewHTMLPage parses r as HTML.
func NewHTMLPage(r io.Reader) (*HTMLPage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &HTMLPage{doc: doc}, nil
}

// NewHTMLPageString parses s as HTML.
func NewHTMLPageString(s string) (*HTMLPage, error) {
	return NewHTMLPage(strings.NewReader(s))
}

func (p *HTMLPage) WaitElement(_ context.Context, selector string, _ time.Duration) error {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	if p.doc.FindMatcher(sel).Length() == 0 {
		return fmt.Errorf("no element matches %q", selector)
	}
	return nil
}

func (p *HTMLPage) ElementText(_ context.Context, selector string) (string, bool, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return "", false, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	match := p.doc.FindMatcher(sel).First()
	if match.Length() == 0 {
		return "", false, nil
	}
	return match.Text(), true, nil
}

func (p *HTMLPage) BodyText(context.Context) (string, error) {
	return p.doc.Find("body").Text(), nil
}

func (p *HTMLPage) VisibleText(context.Context) (string, error) {
	var parts []string
	for _, n := range p.doc.Nodes {
		collectVisible(n, &parts)
	}
	return strings.Join(parts, " "), nil
}

// invisibleTags never contribute rendered text.
var invisibleTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"head":     {},
}

func collectVisible(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	case html.ElementNode:
		if _, skip := invisibleTags[n.Data]; skip || isHidden(n) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectVisible(c, parts)
	}
}

func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "style":
			style := strings.ToLower(strings.ReplaceAll(a.Val, " ", ""))
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}
