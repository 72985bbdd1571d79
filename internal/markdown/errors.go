package markdown

import "errors"

var (
	// ErrMalformedInline reports an inline delimiter without a closing partner.
	ErrMalformedInline = errors.New("malformed inline markup")
	// ErrInvalidLinkSyntax reports an image or link that could not be split out of its text.
	ErrInvalidLinkSyntax = errors.New("invalid image or link syntax")
	// ErrUnknownSpanKind reports a span whose kind has no HTML rendering.
	ErrUnknownSpanKind = errors.New("unknown span kind")
	// ErrUnrecognizedBlockType reports a block type the builder has no conversion for.
	ErrUnrecognizedBlockType = errors.New("unrecognized block type")
	// ErrNoTitleFound reports a document without a level-1 heading.
	ErrNoTitleFound = errors.New("no level-1 heading found")
)
