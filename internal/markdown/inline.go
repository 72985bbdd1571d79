package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/oops"
)

// SpanKind identifies how a span of inline text is rendered.
type SpanKind int

const (
	SpanPlain SpanKind = iota
	SpanBold
	SpanItalic
	SpanCode
	SpanLink
	SpanImage
)

func (k SpanKind) String() string {
	switch k {
	case SpanPlain:
		return "plain"
	case SpanBold:
		return "bold"
	case SpanItalic:
		return "italic"
	case SpanCode:
		return "code"
	case SpanLink:
		return "link"
	case SpanImage:
		return "image"
	default:
		return "unknown"
	}
}

// Span is a typed run of inline text. URL is only meaningful for links and images.
type Span struct {
	Text string
	Kind SpanKind
	URL  string
}

// HasURL reports whether the span kind carries a URL.
func (s Span) HasURL() bool {
	return s.Kind == SpanLink || s.Kind == SpanImage
}

type delimiterPass struct {
	delimiter string
	kind      SpanKind
}

// Code spans go first so that emphasis markers inside them are left alone,
// and the double markers go before the single ones.
func delimiterPasses() []delimiterPass {
	return []delimiterPass{
		{delimiter: "`", kind: SpanCode},
		{delimiter: "**", kind: SpanBold},
		{delimiter: "__", kind: SpanBold},
		{delimiter: "*", kind: SpanItalic},
		{delimiter: "_", kind: SpanItalic},
	}
}

var (
	imagePattern = regexp.MustCompile(`!\[([^\[\]]*)\]\(([^\(\)]*)\)`)
	linkPattern  = regexp.MustCompile(`\[([^\[\]]*)\]\(([^\(\)]*)\)`)
)

// TextToSpans runs every inline pass over text in fixed order.
func TextToSpans(text string) ([]Span, error) {
	spans := []Span{{Text: text, Kind: SpanPlain}}

	var err error
	for _, pass := range delimiterPasses() {
		spans, err = SplitDelimiter(spans, pass.delimiter, pass.kind)
		if err != nil {
			return nil, err
		}
	}

	if spans, err = SplitImages(spans); err != nil {
		return nil, err
	}

	return SplitLinks(spans)
}

// SplitDelimiter replaces every delimiter pair inside plain spans with a span
// of the given kind. Spans that are not plain pass through untouched. Pairs
// with nothing between them are dropped.
func SplitDelimiter(spans []Span, delimiter string, kind SpanKind) ([]Span, error) {
	out := make([]Span, 0, len(spans))

	for _, span := range spans {
		if span.Kind != SpanPlain {
			out = append(out, span)
			continue
		}

		parts := strings.Split(span.Text, delimiter)
		if len(parts)%2 == 0 {
			return nil, oops.
				Code("MALFORMED_INLINE").
				With("delimiter", delimiter).
				With("text", span.Text).
				Hint(fmt.Sprintf("Close every %q with a matching %q", delimiter, delimiter)).
				Wrapf(ErrMalformedInline, "unmatched delimiter %q", delimiter)
		}

		for i, part := range parts {
			if part == "" {
				continue
			}

			if i%2 == 0 {
				out = append(out, Span{Text: part, Kind: SpanPlain})
			} else {
				out = append(out, Span{Text: part, Kind: kind})
			}
		}
	}

	return out, nil
}

// SplitImages extracts ![alt](url) images from plain spans.
func SplitImages(spans []Span) ([]Span, error) {
	return splitPattern(spans, SpanImage, func(text string) []match {
		return findMatches(imagePattern, text, false)
	}, func(m match) string {
		return "![" + m.label + "](" + m.url + ")"
	})
}

// SplitLinks extracts [text](url) links from plain spans. A bracket preceded
// by "!" is an image, never a link.
func SplitLinks(spans []Span) ([]Span, error) {
	return splitPattern(spans, SpanLink, func(text string) []match {
		return findMatches(linkPattern, text, true)
	}, func(m match) string {
		return "[" + m.label + "](" + m.url + ")"
	})
}

// ImageRef is an (alt, url) pair found in markdown text.
type ImageRef struct {
	Alt string
	URL string
}

// LinkRef is an (anchor text, url) pair found in markdown text.
type LinkRef struct {
	Text string
	URL  string
}

// ExtractImages lists the images in text, in order.
func ExtractImages(text string) []ImageRef {
	matches := findMatches(imagePattern, text, false)
	refs := make([]ImageRef, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, ImageRef{Alt: m.label, URL: m.url})
	}

	return refs
}

// ExtractLinks lists the links in text, in order, ignoring images.
func ExtractLinks(text string) []LinkRef {
	matches := findMatches(linkPattern, text, true)
	refs := make([]LinkRef, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, LinkRef{Text: m.label, URL: m.url})
	}

	return refs
}

type match struct {
	label string
	url   string
}

func findMatches(pattern *regexp.Regexp, text string, skipBang bool) []match {
	var matches []match
	for _, loc := range pattern.FindAllStringSubmatchIndex(text, -1) {
		if skipBang && loc[0] > 0 && text[loc[0]-1] == '!' {
			continue
		}

		matches = append(matches, match{
			label: text[loc[2]:loc[3]],
			url:   text[loc[4]:loc[5]],
		})
	}

	return matches
}

func splitPattern(
	spans []Span,
	kind SpanKind,
	find func(string) []match,
	literal func(match) string,
) ([]Span, error) {
	out := make([]Span, 0, len(spans))

	for _, span := range spans {
		if span.Kind != SpanPlain {
			out = append(out, span)
			continue
		}

		matches := find(span.Text)
		if len(matches) == 0 {
			out = append(out, span)
			continue
		}

		remaining := span.Text
		for _, m := range matches {
			lit := literal(m)
			before, after, found := cutMatch(remaining, lit, kind)
			if !found {
				return nil, oops.
					Code("INVALID_LINK_SYNTAX").
					With("kind", kind.String()).
					With("markup", lit).
					Wrapf(ErrInvalidLinkSyntax, "%s section %q not closed", kind, lit)
			}

			if before != "" {
				out = append(out, Span{Text: before, Kind: SpanPlain})
			}

			out = append(out, Span{Text: m.label, Kind: kind, URL: m.url})
			remaining = after
		}

		if remaining != "" {
			out = append(out, Span{Text: remaining, Kind: SpanPlain})
		}
	}

	return out, nil
}

// cutMatch cuts text around the first occurrence of lit. For links the
// occurrence must not be preceded by "!", which would make it an image.
func cutMatch(text, lit string, kind SpanKind) (string, string, bool) {
	offset := 0
	for {
		idx := strings.Index(text[offset:], lit)
		if idx < 0 {
			return "", "", false
		}

		start := offset + idx
		if kind == SpanLink && start > 0 && text[start-1] == '!' {
			offset = start + 1
			continue
		}

		return text[:start], text[start+len(lit):], true
	}
}
