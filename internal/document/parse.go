package document

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrEmptyDocument is returned for blank input
var ErrEmptyDocument = errors.New("empty document")

// Root is the name of the synthetic node returned by Parse. Its children are
// the top-level elements of the document.
const Root = "#document"

// Parse parses XML text into a Node tree.
//
// Bureau responses are usually UTF-8 but the declaration may name a legacy
// Cyrillic charset, so non-UTF-8 encodings are decoded through x/net/html/charset.
func Parse(text string) (*Node, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	dec := xml.NewDecoder(strings.NewReader(text))
	dec.CharsetReader = charset.NewReaderLabel

	root := NewNode(Root)
	stack := []*Node{root}
	var texts []*strings.Builder
	texts = append(texts, &strings.Builder{})

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := NewNode(t.Name.Local)
			for _, a := range t.Attr {
				node.SetAttr(a.Name.Local, a.Value)
			}
			stack[len(stack)-1].AddChild(node)
			stack = append(stack, node)
			texts = append(texts, &strings.Builder{})
		case xml.EndElement:
			if len(stack) == 1 {
				return nil, fmt.Errorf("decode xml: unexpected end element %q", t.Name.Local)
			}
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(texts[len(texts)-1].String())
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]
		case xml.CharData:
			texts[len(texts)-1].Write(t)
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("decode xml: unclosed element %q", stack[len(stack)-1].Name)
	}
	if len(root.order) == 0 {
		return nil, ErrEmptyDocument
	}

	return root, nil
}
