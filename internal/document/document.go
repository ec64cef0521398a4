package document

import "strings"

// AttrPrefix marks attribute keys in a node, e.g. "@score".
const AttrPrefix = "@"

// Node is one element of a parsed bureau document.
//
// Repeated child elements are always exposed as a sequence, so callers never
// have to care whether the source document contained one <crdeal> or many.
// All accessors are safe on a nil receiver and return zero values, which lets
// traversal code chain lookups without checking each step.
type Node struct {
	Name     string
	Attrs    map[string]string // keyed with AttrPrefix
	Text     string
	children map[string][]*Node
	order    []string
}

// NewNode creates an empty element node
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Attrs:    make(map[string]string),
		children: make(map[string][]*Node),
	}
}

// AddChild appends a child element, preserving document order per tag
func (n *Node) AddChild(child *Node) {
	if _, seen := n.children[child.Name]; !seen {
		n.order = append(n.order, child.Name)
	}
	n.children[child.Name] = append(n.children[child.Name], child)
}

// SetAttr sets an attribute; the key is stored with AttrPrefix
func (n *Node) SetAttr(key, value string) {
	n.Attrs[AttrPrefix+key] = value
}

// Children returns every child element with the given tag, in document order
func (n *Node) Children(name string) []*Node {
	if n == nil {
		return nil
	}
	return n.children[name]
}

// Child returns the first child element with the given tag, or nil
func (n *Node) Child(name string) *Node {
	kids := n.Children(name)
	if len(kids) == 0 {
		return nil
	}
	return kids[0]
}

// Path follows the first matching child for each tag in turn
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Has reports whether a child element with the given tag exists
func (n *Node) Has(name string) bool {
	return len(n.Children(name)) > 0
}

// Attr returns an attribute value. The key must carry AttrPrefix.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	v, ok := n.Attrs[key]
	return v, ok
}

// ChildNames returns the distinct child tags in first-seen order
func (n *Node) ChildNames() []string {
	if n == nil {
		return nil
	}
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// IsEmpty reports whether the node carries no data at all
func (n *Node) IsEmpty() bool {
	return n == nil || (len(n.Attrs) == 0 && len(n.children) == 0 && n.Text == "")
}

// Value returns the raw representation behind a key: the attribute string for
// "@"-prefixed keys, otherwise the text of the single matching child or the
// child sequence itself. A missing key yields an empty sequence, which
// normalize.IsPresent treats as absent.
func (n *Node) Value(key string) any {
	if strings.HasPrefix(key, AttrPrefix) {
		if v, ok := n.Attr(key); ok {
			return v
		}
		return []*Node{}
	}
	kids := n.Children(key)
	if len(kids) == 1 && len(kids[0].children) == 0 {
		return kids[0].Text
	}
	if kids == nil {
		return []*Node{}
	}
	return kids
}
