package telegraph

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is a Telegraph content node: either a text string or an Element.
type Node any

// Element is a tag node in Telegraph's content format.
type Element struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []Node            `json:"children,omitempty"`
}

var allowedTags = map[string]bool{
	"a": true, "aside": true, "b": true, "blockquote": true, "br": true,
	"code": true, "em": true, "figcaption": true, "figure": true, "h3": true,
	"h4": true, "hr": true, "i": true, "iframe": true, "img": true, "li": true,
	"ol": true, "p": true, "pre": true, "s": true, "strong": true, "u": true,
	"ul": true, "video": true,
}

var allowedAttrs = map[string]bool{"href": true, "src": true}

// HTMLToNodes converts an HTML fragment into Telegraph nodes. Tags Telegraph
// does not accept are dropped and their children kept in place.
func HTMLToNodes(fragment string) ([]Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, fmt.Errorf("parsing page html: %w", err)
	}

	var out []Node
	for _, n := range parsed {
		out = append(out, convert(n)...)
	}
	return out, nil
}

func convert(n *html.Node) []Node {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return nil
		}
		return []Node{n.Data}
	case html.ElementNode:
		var children []Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, convert(c)...)
		}
		if !allowedTags[n.Data] {
			return children
		}
		el := &Element{Tag: n.Data, Children: children}
		for _, a := range n.Attr {
			if allowedAttrs[a.Key] {
				if el.Attrs == nil {
					el.Attrs = map[string]string{}
				}
				el.Attrs[a.Key] = a.Val
			}
		}
		return []Node{el}
	default:
		return nil
	}
}
