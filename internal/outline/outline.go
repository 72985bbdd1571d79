// Package outline describes a markdown page: its heading tree, a short
// description and its size. It reads the page with gomarkdown and is
// independent of the site's own HTML compiler.
package outline

import (
	"bytes"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

const (
	setextH1Level = 1
	setextH2Level = 2
)

type Outline struct {
	Description string    `json:"description,omitempty"`
	Headings    []Heading `json:"headings,omitempty"`
	Lines       int       `json:"lines"`
}

type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"line"`
}

// Extract builds the outline of a markdown page.
func Extract(content []byte) *Outline {
	content = StripBOM(content)

	mdParser := parser.NewWithExtensions(parser.CommonExtensions)
	doc := mdParser.Parse(content)

	headings, firstPara, paraAfterH1 := extractMarkdownContent(doc, content)

	description := paraAfterH1
	if description == "" {
		description = firstPara
	}

	return &Outline{
		Description: description,
		Headings:    headings,
		Lines:       bytes.Count(content, []byte("\n")) + 1,
	}
}

func extractMarkdownContent(doc ast.Node, content []byte) ([]Heading, string, string) {
	var headings []Heading
	var firstParagraph string
	var paragraphAfterH1 string
	foundH1 := false

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		switch n := node.(type) {
		case *ast.Heading:
			if text := extractText(n); text != "" {
				headings = append(headings, Heading{Level: n.Level, Text: text})
				if n.Level == 1 {
					foundH1 = true
				}
			}
			return ast.SkipChildren

		case *ast.Paragraph:
			text := extractText(n)
			if text == "" {
				return ast.SkipChildren
			}

			if firstParagraph == "" {
				firstParagraph = text
			}

			if foundH1 && paragraphAfterH1 == "" {
				paragraphAfterH1 = text
			}
			return ast.SkipChildren
		}

		return ast.GoToNext
	})

	assignHeadingLineNumbers(headings, content)
	return headings, firstParagraph, paragraphAfterH1
}

func extractText(node ast.Node) string {
	var buf strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		switch leaf := n.(type) {
		case *ast.Text:
			buf.Write(leaf.Literal)
		case *ast.Code:
			buf.Write(leaf.Literal)
		}
		return ast.GoToNext
	})

	// collapse runs of whitespace left by soft line breaks
	return strings.Join(strings.Fields(buf.String()), " ")
}

// assignHeadingLineNumbers scans content for heading markers and assigns
// the correct line number to each heading in document order.
// This is necessary because gomarkdown's AST does not store source positions.
func assignHeadingLineNumbers(headings []Heading, content []byte) {
	if len(headings) == 0 {
		return
	}

	lines := bytes.Split(content, []byte("\n"))
	hi := 0
	inFenced := false

	for lineIdx := 0; lineIdx < len(lines) && hi < len(headings); lineIdx++ {
		line := lines[lineIdx]
		trimmed := bytes.TrimSpace(line)

		if isFenceMarker(trimmed) {
			inFenced = !inFenced
			continue
		}
		if inFenced {
			continue
		}

		if level := atxHeadingLevel(line); level == headings[hi].Level {
			headings[hi].Line = lineIdx + 1
			hi++
			continue
		}

		if level := setextHeadingLevel(lines, lineIdx, trimmed); level == headings[hi].Level {
			headings[hi].Line = lineIdx + 1
			hi++
		}
	}
}

func isFenceMarker(trimmed []byte) bool {
	return bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~"))
}

// atxHeadingLevel returns the heading level (1-6) for an ATX heading line,
// or 0 if the line is not an ATX heading.
func atxHeadingLevel(line []byte) int {
	spaces := 0
	for spaces < len(line) && spaces < 4 && line[spaces] == ' ' {
		spaces++
	}
	if spaces >= 4 || spaces >= len(line) || line[spaces] != '#' {
		return 0
	}

	level := 0
	for spaces+level < len(line) && level < 7 && line[spaces+level] == '#' {
		level++
	}
	if level >= 1 && level <= 6 && spaces+level < len(line) && line[spaces+level] == ' ' {
		return level
	}
	return 0
}

// setextHeadingLevel returns 1 for a === underline, 2 for ---, or 0.
func setextHeadingLevel(lines [][]byte, lineIdx int, trimmed []byte) int {
	if lineIdx+1 >= len(lines) || len(trimmed) == 0 {
		return 0
	}
	nextTrimmed := bytes.TrimSpace(lines[lineIdx+1])
	if allSameChar(nextTrimmed, '=') {
		return setextH1Level
	}
	if allSameChar(nextTrimmed, '-') {
		return setextH2Level
	}
	return 0
}

func allSameChar(b []byte, ch byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c != ch {
			return false
		}
	}
	return true
}
