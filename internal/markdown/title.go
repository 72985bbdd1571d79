package markdown

import (
	"strings"

	"github.com/samber/oops"
)

// ExtractTitle returns the text of the first level-1 heading line.
func ExtractTitle(markdown string) (string, error) {
	for line := range strings.SplitSeq(markdown, "\n") {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(title), nil
		}
	}

	return "", oops.
		Code("NO_TITLE_FOUND").
		Hint("Start the document with a '# Title' line").
		Wrapf(ErrNoTitleFound, "document has no level-1 heading")
}
