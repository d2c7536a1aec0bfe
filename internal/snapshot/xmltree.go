package snapshot

import (
	"encoding/xml"
	"errors"
	"io"
	"sort"
	"strings"
)

// xmlNode is a whitespace-insensitive view of an XML element.
type xmlNode struct {
	Name     string
	Attrs    []string
	Text     string
	Children []*xmlNode
}

func parseXMLTree(doc string) (*xmlNode, error) {
	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = true

	root := &xmlNode{Name: "#document"}
	stack := []*xmlNode{root}
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			top.Text += strings.TrimSpace(text.String())
			text.Reset()
			node := &xmlNode{Name: qualifiedName(t.Name)}
			for _, a := range t.Attr {
				node.Attrs = append(node.Attrs, qualifiedName(a.Name)+"="+a.Value)
			}
			sort.Strings(node.Attrs)
			top.Children = append(top.Children, node)
			stack = append(stack, node)
		case xml.EndElement:
			top.Text += strings.TrimSpace(text.String())
			text.Reset()
			stack = stack[:len(stack)-1]
		case xml.CharData:
			text.Write(t)
		}
	}
	if len(stack) != 1 {
		return nil, errors.New("unexpected end of XML document")
	}
	return root, nil
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func (n *xmlNode) equal(other *xmlNode) bool {
	if n.Name != other.Name || n.Text != other.Text ||
		len(n.Attrs) != len(other.Attrs) || len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Attrs {
		if n.Attrs[i] != other.Attrs[i] {
			return false
		}
	}
	for i := range n.Children {
		if !n.Children[i].equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// XMLEqual reports whether two documents have the same element structure,
// attributes (in any order) and trimmed character data. ok is false when
// either document is not well-formed.
func XMLEqual(a, b string) (equal, ok bool) {
	ta, err := parseXMLTree(a)
	if err != nil {
		return false, false
	}
	tb, err := parseXMLTree(b)
	if err != nil {
		return false, false
	}
	return ta.equal(tb), true
}
