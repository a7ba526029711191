package htmlutil

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// elements whose text is never part of the rendered page
var hiddenElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
}

// GetText concatenates every text node under `node`.
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
	if node.Type == html.ElementNode && hiddenElements[node.DataAtom] {
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// GetTextStrings returns every visible text node under `node` in document
// order, trimmed of surrounding whitespace. Empty strings are dropped.
func GetTextStrings(node *html.Node) []string {
	var out []string
	getStringsRecursive(node, &out)
	return out
}

func getStringsRecursive(node *html.Node, out *[]string) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		text := strings.TrimSpace(node.Data)
		if text != "" {
			*out = append(*out, text)
		}
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if hiddenElements[node.DataAtom] {
			return
		}
	}
	child := node.FirstChild
	for child != nil {
		getStringsRecursive(child, out)
		child = child.NextSibling
	}
}
