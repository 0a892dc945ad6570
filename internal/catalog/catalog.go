// Package catalog loads the ordered list of transformation styles.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"booth/internal/domain"
)

//go:embed styles.yaml
var defaultStyles []byte

type file struct {
	Styles []domain.StyleDescriptor `yaml:"styles"`
}

// Catalog is an immutable, ordered list of styles.
type Catalog struct {
	styles []domain.StyleDescriptor
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultStyles)
}

// Load reads the catalog at path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document. An empty style list is accepted
// here; it is the collage stage that rejects zero images.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return New(f.Styles)
}

// New validates styles and copies them into a Catalog.
func New(styles []domain.StyleDescriptor) (*Catalog, error) {
	title := cases.Title(language.Und)
	seen := make(map[string]struct{}, len(styles))
	out := make([]domain.StyleDescriptor, 0, len(styles))
	for i, s := range styles {
		s.ID = strings.TrimSpace(s.ID)
		s.Name = strings.TrimSpace(s.Name)
		s.Prompt = strings.TrimSpace(s.Prompt)
		if s.ID == "" {
			return nil, fmt.Errorf("catalog: style %d: id is required", i)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate style id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.Prompt == "" {
			return nil, fmt.Errorf("catalog: style %q: prompt is required", s.ID)
		}
		if s.Name == "" {
			s.Name = title.String(strings.NewReplacer("_", " ", "-", " ").Replace(s.ID))
		}
		out = append(out, s)
	}
	return &Catalog{styles: out}, nil
}

// Styles returns a copy of the ordered styles.
func (c *Catalog) Styles() []domain.StyleDescriptor {
	if c == nil {
		return nil
	}
	out := make([]domain.StyleDescriptor, len(c.styles))
	copy(out, c.styles)
	return out
}

// Len reports the number of styles.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.styles)
}
