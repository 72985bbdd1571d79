package build

import (
	"bytes"

	"github.com/adrg/frontmatter"
	"github.com/samber/oops"
)

// FrontMatter is the optional metadata block at the top of a page, delimited
// by "---" (YAML) or "+++" (TOML).
type FrontMatter struct {
	Title       string `yaml:"title"       toml:"title"`
	Description string `yaml:"description" toml:"description"`
	Draft       bool   `yaml:"draft"       toml:"draft"`
}

// ParseFrontMatter splits source into its metadata and markdown body. Pages
// without front matter return a zero FrontMatter and the source unchanged.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, oops.
			Code("FRONT_MATTER_INVALID").
			Hint("Check the YAML or TOML between the front matter delimiters").
			Wrapf(err, "parsing front matter")
	}

	return meta, body, nil
}
