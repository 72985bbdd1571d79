package markdown

import (
	"strconv"
	"strings"
)

// BlockType classifies a block of markdown.
type BlockType string

const (
	BlockParagraph     BlockType = "paragraph"
	BlockHeading       BlockType = "heading"
	BlockCodeFence     BlockType = "code"
	BlockQuote         BlockType = "quote"
	BlockUnorderedList BlockType = "unordered_list"
	BlockOrderedList   BlockType = "ordered_list"
)

const (
	fenceMarker     = "```"
	maxHeadingLevel = 6
)

// SplitBlocks partitions a document on runs of blank lines. Each block is
// trimmed and empty blocks are dropped.
func SplitBlocks(doc string) []string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")

	var (
		blocks  []string
		current []string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}

		if block := strings.TrimSpace(strings.Join(current, "\n")); block != "" {
			blocks = append(blocks, block)
		}
		current = current[:0]
	}

	for line := range strings.SplitSeq(doc, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

// ClassifyBlock returns the type of a trimmed block. The first matching rule
// wins: heading, code fence, quote, unordered list, ordered list, paragraph.
func ClassifyBlock(block string) BlockType {
	lines := strings.Split(block, "\n")

	switch {
	case len(lines) == 1 && headingLevel(lines[0]) > 0:
		return BlockHeading
	case isCodeFence(lines):
		return BlockCodeFence
	case allLines(lines, func(_ int, line string) bool { return strings.HasPrefix(line, ">") }):
		return BlockQuote
	case allLines(lines, func(_ int, line string) bool { return unorderedMarker(line) }):
		return BlockUnorderedList
	case allLines(lines, func(i int, line string) bool { return strings.HasPrefix(line, orderedMarker(i+1)) }):
		return BlockOrderedList
	default:
		return BlockParagraph
	}
}

// headingLevel returns 1-6 for a line made of that many "#", one space and
// some text, and 0 for anything else.
func headingLevel(line string) int {
	level := 0
	for level < len(line) && level <= maxHeadingLevel && line[level] == '#' {
		level++
	}

	if level == 0 || level > maxHeadingLevel {
		return 0
	}

	rest, ok := strings.CutPrefix(line[level:], " ")
	if !ok || strings.TrimSpace(rest) == "" {
		return 0
	}

	return level
}

func isCodeFence(lines []string) bool {
	if len(lines) < 2 {
		return false
	}

	return strings.HasPrefix(lines[0], fenceMarker) && strings.TrimSpace(lines[len(lines)-1]) == fenceMarker
}

func unorderedMarker(line string) bool {
	return strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "- ")
}

func orderedMarker(n int) string {
	return strconv.Itoa(n) + ". "
}

func allLines(lines []string, pred func(int, string) bool) bool {
	for i, line := range lines {
		if !pred(i, line) {
			return false
		}
	}

	return len(lines) > 0
}
