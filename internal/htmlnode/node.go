// Package htmlnode provides a minimal HTML element tree with serialization.
//
// A tree is made of two node kinds: leaves, which hold literal text, and
// elements, which own an ordered list of children. Both constructors enforce
// their structural rules, so a tree that was built without error always
// serializes.
package htmlnode

import (
	"errors"
	"slices"
	"strings"

	"github.com/samber/oops"
)

// ErrConstruction is returned when a node is built in violation of its
// structural rules.
var ErrConstruction = errors.New("invalid html node")

// Node is implemented by *Leaf and *Element only.
type Node interface {
	// HTML serializes the node and its subtree.
	HTML() string
	Tag() string
	Attrs() Attrs

	sealed()
}

// Attr is a single HTML attribute.
type Attr struct {
	Key   string
	Value string
}

// Attrs is an insertion-ordered attribute list.
type Attrs []Attr

// Set replaces the value of key if present, otherwise appends it.
func (a Attrs) Set(key, value string) Attrs {
	for i := range a {
		if a[i].Key == key {
			a[i].Value = value
			return a
		}
	}

	return append(a, Attr{Key: key, Value: value})
}

// Get returns the value stored for key.
func (a Attrs) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}

	return "", false
}

// HTML renders the list as ` key="value"` pairs. Values are not escaped.
func (a Attrs) HTML() string {
	var b strings.Builder
	for _, attr := range a {
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(attr.Value)
		b.WriteByte('"')
	}

	return b.String()
}

func normalizeAttrs(attrs []Attr) Attrs {
	if len(attrs) == 0 {
		return nil
	}

	out := make(Attrs, 0, len(attrs))
	for _, attr := range attrs {
		out = out.Set(attr.Key, attr.Value)
	}

	return out
}

// Leaf is a childless node. An untagged leaf renders as raw text.
type Leaf struct {
	tag   string
	text  string
	attrs Attrs
}

// NewLeaf builds a leaf. An untagged leaf must carry text.
func NewLeaf(tag, text string, attrs ...Attr) (*Leaf, error) {
	if tag == "" && text == "" {
		return nil, oops.
			Code("NODE_CONSTRUCTION").
			With("kind", "leaf").
			Wrapf(ErrConstruction, "leaf node has no tag and no text")
	}

	return &Leaf{tag: tag, text: text, attrs: normalizeAttrs(attrs)}, nil
}

// NewText builds an untagged text leaf.
func NewText(text string) (*Leaf, error) {
	return NewLeaf("", text)
}

func (l *Leaf) Tag() string { return l.tag }

func (l *Leaf) Text() string { return l.text }

func (l *Leaf) Attrs() Attrs { return slices.Clone(l.attrs) }

func (l *Leaf) String() string { return l.HTML() }

func (l *Leaf) sealed() {}

func (l *Leaf) HTML() string {
	if l.tag == "" {
		return l.text
	}

	return "<" + l.tag + l.attrs.HTML() + ">" + l.text + "</" + l.tag + ">"
}

// Element is a tagged node that owns at least one child.
type Element struct {
	tag      string
	children []Node
	attrs    Attrs
}

// NewElement builds an element. The children slice is copied.
func NewElement(tag string, children []Node, attrs ...Attr) (*Element, error) {
	if tag == "" {
		return nil, oops.
			Code("NODE_CONSTRUCTION").
			With("kind", "element").
			Wrapf(ErrConstruction, "element node has no tag")
	}

	if len(children) == 0 {
		return nil, oops.
			Code("NODE_CONSTRUCTION").
			With("kind", "element").
			With("tag", tag).
			Hint("Elements must wrap at least one child node").
			Wrapf(ErrConstruction, "element <%s> has no children", tag)
	}

	for i, child := range children {
		if child == nil {
			return nil, oops.
				Code("NODE_CONSTRUCTION").
				With("kind", "element").
				With("tag", tag).
				With("child", i).
				Wrapf(ErrConstruction, "element <%s> has a nil child at index %d", tag, i)
		}
	}

	return &Element{tag: tag, children: slices.Clone(children), attrs: normalizeAttrs(attrs)}, nil
}

func (e *Element) Tag() string { return e.tag }

func (e *Element) Attrs() Attrs { return slices.Clone(e.attrs) }

func (e *Element) String() string { return e.HTML() }

func (e *Element) sealed() {}

// Children returns a copy of the element's children.
func (e *Element) Children() []Node { return slices.Clone(e.children) }

func (e *Element) HTML() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(e.tag)
	b.WriteString(e.attrs.HTML())
	b.WriteString(">")

	for _, child := range e.children {
		b.WriteString(child.HTML())
	}

	b.WriteString("</")
	b.WriteString(e.tag)
	b.WriteString(">")

	return b.String()
}
