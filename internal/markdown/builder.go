package markdown

import (
	"strconv"
	"strings"

	"github.com/samber/oops"

	"github.com/g5becks/mdsite/internal/htmlnode"
)

// Document is a parsed markdown document rooted at a single div.
type Document struct {
	root *htmlnode.Element
}

// Root returns the document's root element.
func (d *Document) Root() *htmlnode.Element {
	return d.root
}

// HTML serializes the document. It is recomputed on every call.
func (d *Document) HTML() string {
	return d.root.HTML()
}

// Parse converts a markdown document into an HTML tree.
func Parse(markdown string) (*Document, error) {
	blocks := SplitBlocks(markdown)
	children := make([]htmlnode.Node, 0, len(blocks))

	for i, block := range blocks {
		blockType := ClassifyBlock(block)

		node, err := BlockToNode(block, blockType)
		if err != nil {
			return nil, oops.
				With("block", i).
				With("block_type", string(blockType)).
				Wrapf(err, "converting block %d (%s)", i, blockType)
		}

		children = append(children, node)
	}

	root, err := htmlnode.NewElement("div", children)
	if err != nil {
		return nil, oops.
			Hint("The document has no content blocks").
			Wrapf(err, "building document root")
	}

	return &Document{root: root}, nil
}

// BlockToNode converts one classified block into its element.
func BlockToNode(block string, blockType BlockType) (htmlnode.Node, error) {
	lines := strings.Split(block, "\n")

	switch blockType {
	case BlockParagraph:
		return inlineElement("p", strings.Join(lines, " "))

	case BlockHeading:
		level := headingLevel(lines[0])
		if level == 0 {
			return nil, unrecognizedBlock(blockType, block)
		}

		return inlineElement("h"+strconv.Itoa(level), lines[0][level+1:])

	case BlockCodeFence:
		if len(lines) < 2 {
			return nil, unrecognizedBlock(blockType, block)
		}

		return codeFenceToNode(lines)

	case BlockQuote:
		stripped := make([]string, 0, len(lines))
		for _, line := range lines {
			line = strings.TrimPrefix(line, ">")
			stripped = append(stripped, strings.TrimPrefix(line, " "))
		}

		return inlineElement("blockquote", strings.Join(stripped, " "))

	case BlockUnorderedList:
		return listToNode("ul", lines, func(_ int, line string) string {
			return line[2:]
		})

	case BlockOrderedList:
		return listToNode("ol", lines, func(i int, line string) string {
			return strings.TrimPrefix(line, orderedMarker(i+1))
		})

	default:
		return nil, unrecognizedBlock(blockType, block)
	}
}

func unrecognizedBlock(blockType BlockType, block string) error {
	return oops.
		Code("UNRECOGNIZED_BLOCK_TYPE").
		With("block_type", string(blockType)).
		With("block", block).
		Wrapf(ErrUnrecognizedBlockType, "no conversion for block type %q", blockType)
}

func inlineElement(tag, text string) (*htmlnode.Element, error) {
	children, err := TextToNodes(text)
	if err != nil {
		return nil, err
	}

	return htmlnode.NewElement(tag, children)
}

func codeFenceToNode(lines []string) (htmlnode.Node, error) {
	inner := strings.Join(lines[1:len(lines)-1], "\n")

	code, err := inlineElement("code", inner)
	if err != nil {
		return nil, err
	}

	return htmlnode.NewElement("pre", []htmlnode.Node{code})
}

func listToNode(tag string, lines []string, strip func(int, string) string) (htmlnode.Node, error) {
	items := make([]htmlnode.Node, 0, len(lines))
	for i, line := range lines {
		item, err := inlineElement("li", strip(i, line))
		if err != nil {
			return nil, oops.
				With("item", i).
				Wrapf(err, "converting list item %d", i+1)
		}

		items = append(items, item)
	}

	return htmlnode.NewElement(tag, items)
}
