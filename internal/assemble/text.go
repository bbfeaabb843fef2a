package assemble

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// Designer component types whose Content holds markup rather than a question.
const (
	typeHTML        = "Html"
	typePara        = "Para"
	typeDetails     = "Details"
	typeInsetText   = "InsetText"
	typeWarningText = "WarningText"
	typeMarkdown    = "Markdown"
)

// isHTMLContent reports whether a component type carries HTML content.
func isHTMLContent(componentType string) bool {
	switch componentType {
	case typeHTML, typePara, typeDetails, typeInsetText, typeWarningText:
		return true
	}
	return false
}

var markdown = goldmark.New()

// markdownToText renders Markdown to HTML and extracts its text.
func markdownToText(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return strings.TrimSpace(src)
	}
	return htmlToText(buf.String())
}

// htmlToText extracts readable text from an HTML fragment. Block elements
// become separate lines and list items are prefixed with a bullet.
// Unparseable input is returned trimmed.
func htmlToText(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return strings.TrimSpace(src)
	}

	var lines []string
	var current strings.Builder

	flush := func() {
		if t := collapseSpace(current.String()); t != "" {
			lines = append(lines, t)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			current.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br":
				flush()
				return
			case "li":
				flush()
				current.WriteString("• ")
			case "p", "div", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6", "summary", "details", "tr":
				flush()
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			flush()
		}
	}
	walk(doc)
	flush()

	return strings.Join(lines, "\n")
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "ul", "ol", "li", "h1", "h2", "h3", "h4", "h5", "h6", "summary", "details", "tr":
		return true
	}
	return false
}

// collapseSpace trims s and reduces every run of whitespace to one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
