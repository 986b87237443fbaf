package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText returns the visible text of a selection with non-printable
// characters removed and whitespace runs collapsed. Portal markup nests
// text in heavily indented spans so the raw node text is rarely usable
// as is.
func CleanText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
	}
	s := removeNonPrintable(buffer.String())
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

var blockTags = map[string]bool{
	"div":   true,
	"p":     true,
	"li":    true,
	"tr":    true,
	"label": true,
	"h1":    true,
	"h2":    true,
	"h3":    true,
	"h4":    true,
}

type blockTextWriter struct {
	b           strings.Builder
	atLineStart bool
}

func (w *blockTextWriter) text(s string) {
	s = strings.TrimSpace(innerWhitespace.ReplaceAllString(removeNonPrintable(s), " "))
	if s == "" {
		return
	}
	if !w.atLineStart && w.b.Len() > 0 {
		w.b.WriteString(" ")
	}
	w.b.WriteString(s)
	w.atLineStart = false
}

func (w *blockTextWriter) breakLine() {
	if w.atLineStart || w.b.Len() == 0 {
		return
	}
	w.b.WriteString("\n")
	w.atLineStart = true
}

// BlockText approximates the rendered text of a selection, one line per
// block-level element. Line structure matters downstream: the member
// policy popup is parsed as alternating key/value lines.
func BlockText(sel *goquery.Selection) string {
	w := &blockTextWriter{atLineStart: true}
	for _, n := range sel.Nodes {
		blockTextRecursive(n, w)
	}
	return strings.Trim(w.b.String(), " \t\n")
}

func blockTextRecursive(node *html.Node, w *blockTextWriter) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		w.text(node.Data)
		return
	case html.ElementNode:
		if node.Data == "br" {
			w.breakLine()
			return
		}
		block := blockTags[node.Data]
		if block {
			w.breakLine()
		}
		child := node.FirstChild
		for child != nil {
			blockTextRecursive(child, w)
			child = child.NextSibling
		}
		if block {
			w.breakLine()
		}
	default:
		child := node.FirstChild
		for child != nil {
			blockTextRecursive(child, w)
			child = child.NextSibling
		}
	}
}
