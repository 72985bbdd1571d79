package config

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

const (
	DefaultContent  = "content"
	DefaultStatic   = "static"
	DefaultTemplate = "template.html"
	DefaultOutput   = "public"
	DefaultParallel = 4
	maxParallel     = 64
)

func DefaultPatterns() []string {
	return []string{"**/*.md"}
}

type Config struct {
	Content   string   `koanf:"content"  validate:"required"`
	Static    string   `koanf:"static"`
	Template  string   `koanf:"template" validate:"required,template_ref"`
	Output    string   `koanf:"output"   validate:"required"`
	Patterns  []string `koanf:"patterns" validate:"required,min=1,dive,glob"`
	Exclude   []string `koanf:"exclude"  validate:"dive,glob"`
	Parallel  int      `koanf:"parallel" validate:"min=1,max=64"`
	ConfigDir string   `koanf:"-"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(fl.Field().String())
	})

	_ = v.RegisterValidation("template_ref", func(fl validator.FieldLevel) bool {
		return isValidTemplateRef(fl.Field().String())
	})

	return v
}

func (c *Config) ApplyDefaults() {
	if c.Content == "" {
		c.Content = DefaultContent
	}

	if c.Static == "" {
		c.Static = DefaultStatic
	}

	if c.Template == "" {
		c.Template = DefaultTemplate
	}

	if c.Output == "" {
		c.Output = DefaultOutput
	}

	if len(c.Patterns) == 0 {
		c.Patterns = DefaultPatterns()
	}

	if c.Parallel <= 0 {
		c.Parallel = DefaultParallel
	}

	if c.Parallel > maxParallel {
		c.Parallel = maxParallel
	}
}

func (c *Config) Validate() error {
	valErr := newValidator().Struct(c)
	if valErr == nil {
		return c.validateLayout()
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(valErr, &validationErrors) {
		return oops.
			Code("CONFIG_INVALID").
			Wrapf(valErr, "validating config")
	}

	for _, fe := range validationErrors {
		return mapValidationError(c, fe)
	}

	return nil
}

// validateLayout rejects an output directory that contains the content
// directory, since cleaning the output would delete the sources.
func (c *Config) validateLayout() error {
	content := filepath.Clean(c.resolve(c.Content))
	output := filepath.Clean(c.resolve(c.Output))

	if content == output || isWithin(content, output) {
		return oops.
			Code("CONFIG_INVALID").
			With("field", "output").
			With("content", content).
			With("output", output).
			Hint("Point output at a directory outside the content tree").
			Errorf("output directory %q contains content directory %q", output, content)
	}

	return nil
}

func mapValidationError(c *Config, fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())

	switch {
	case fe.Tag() == "glob":
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			With("pattern", fe.Value()).
			Hint("Use doublestar glob syntax, e.g. **/*.md").
			Errorf("invalid glob pattern %q in %s", fe.Value(), field)

	case fe.Tag() == "template_ref":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "template").
			With("value", c.Template).
			Hint("Set template to a file path or an http(s) URL").
			Errorf("invalid template reference %q", c.Template)

	case fe.Tag() == "min" || fe.Tag() == "max":
		if field == "parallel" {
			return oops.
				Code("CONFIG_INVALID").
				With("field", field).
				With("value", c.Parallel).
				Hint("Set parallel between 1 and 64").
				Errorf("parallel must be between 1 and %d, got %d", maxParallel, c.Parallel)
		}

		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			Errorf("%s must not be empty", field)

	case fe.Tag() == "required":
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			Hint("Remove the field to use the default value").
			Errorf("missing %s", field)

	default:
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			With("tag", fe.Tag()).
			Errorf("validation failed for field %q", field)
	}
}

// IsRemoteTemplate reports whether the template is fetched over HTTP.
func (c *Config) IsRemoteTemplate() bool {
	return isRemoteRef(c.Template)
}

func (c *Config) resolvePaths() {
	c.Content = c.resolve(c.Content)
	c.Static = c.resolve(c.Static)
	c.Output = c.resolve(c.Output)

	if !c.IsRemoteTemplate() {
		c.Template = c.resolve(c.Template)
	}
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.ConfigDir == "" {
		return filepath.Clean(path)
	}

	return filepath.Clean(filepath.Join(c.ConfigDir, path))
}

func isValidTemplateRef(ref string) bool {
	if strings.TrimSpace(ref) == "" {
		return false
	}

	if !strings.Contains(ref, "://") {
		return true
	}

	return isRemoteRef(ref)
}

func isRemoteRef(ref string) bool {
	parsed, err := url.Parse(ref)
	if err != nil {
		return false
	}

	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}

	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
