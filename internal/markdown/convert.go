package markdown

import (
	"github.com/samber/oops"

	"github.com/g5becks/mdsite/internal/htmlnode"
)

// SpanToNode maps a span onto the leaf that renders it.
func SpanToNode(span Span) (htmlnode.Node, error) {
	var (
		leaf *htmlnode.Leaf
		err  error
	)

	switch span.Kind {
	case SpanPlain:
		leaf, err = htmlnode.NewText(span.Text)
	case SpanBold:
		leaf, err = htmlnode.NewLeaf("b", span.Text)
	case SpanItalic:
		leaf, err = htmlnode.NewLeaf("i", span.Text)
	case SpanCode:
		leaf, err = htmlnode.NewLeaf("code", span.Text)
	case SpanLink:
		leaf, err = htmlnode.NewLeaf("a", span.Text, htmlnode.Attr{Key: "href", Value: span.URL})
	case SpanImage:
		leaf, err = htmlnode.NewLeaf("img", "",
			htmlnode.Attr{Key: "src", Value: span.URL},
			htmlnode.Attr{Key: "alt", Value: span.Text},
		)
	default:
		return nil, oops.
			Code("UNKNOWN_SPAN_KIND").
			With("kind", int(span.Kind)).
			Wrapf(ErrUnknownSpanKind, "cannot convert span of kind %d", int(span.Kind))
	}

	if err != nil {
		return nil, err
	}

	return leaf, nil
}

// TextToNodes tokenizes inline text and converts every span to a node.
func TextToNodes(text string) ([]htmlnode.Node, error) {
	spans, err := TextToSpans(text)
	if err != nil {
		return nil, err
	}

	nodes := make([]htmlnode.Node, 0, len(spans))
	for _, span := range spans {
		node, convErr := SpanToNode(span)
		if convErr != nil {
			return nil, convErr
		}

		nodes = append(nodes, node)
	}

	return nodes, nil
}
