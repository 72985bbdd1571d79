package build

// Test-only exports for internal helper functions.

//nolint:gochecknoglobals // Test-only exports
var (
	ShouldIncludeFile = shouldIncludeFile
)

// DiscoverPages returns the source paths selected under contentDir.
func DiscoverPages(contentDir string, patterns []string, exclude []string) ([]string, error) {
	pages, err := discoverPages(contentDir, patterns, exclude)
	if err != nil {
		return nil, err
	}

	sources := make([]string, 0, len(pages))
	for _, p := range pages {
		sources = append(sources, p.source)
	}

	return sources, nil
}
