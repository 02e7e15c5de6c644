package catalog

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoParagraphs = errors.New("catalog has no paragraphs")
	ErrNoIcons      = errors.New("catalog has no icons")
)

// Catalog is the static content a race server hands out: practice paragraphs and the
// icons assigned to racers. It is read-only once loaded and safe to share between rooms.
type Catalog struct {
	Paragraphs   []string `yaml:"paragraphs"`
	Icons        []string `yaml:"icons"`
	FallbackIcon string   `yaml:"fallbackIcon"`
}

func Default() *Catalog {
	return &Catalog{
		Paragraphs:   slices.Clone(defaultParagraphs),
		Icons:        slices.Clone(defaultIcons),
		FallbackIcon: defaultFallbackIcon,
	}
}

// Load reads a YAML catalog from path. Sections left out of the file keep their defaults.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var parsed Catalog
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := Default()
	if parsed.Paragraphs != nil {
		c.Paragraphs = parsed.Paragraphs
	}
	if parsed.Icons != nil {
		c.Icons = parsed.Icons
	}
	if parsed.FallbackIcon != "" {
		c.FallbackIcon = parsed.FallbackIcon
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Validate() error {
	if len(c.Paragraphs) == 0 {
		return ErrNoParagraphs
	}
	for i, p := range c.Paragraphs {
		if p == "" {
			return fmt.Errorf("paragraph %d is empty", i)
		}
	}
	if len(c.Icons) == 0 {
		return ErrNoIcons
	}
	seen := make(map[string]struct{}, len(c.Icons))
	for _, icon := range c.Icons {
		if _, dup := seen[icon]; dup {
			return fmt.Errorf("icon %q listed twice", icon)
		}
		seen[icon] = struct{}{}
	}
	if c.FallbackIcon == "" {
		return errors.New("catalog has no fallback icon")
	}
	return nil
}

func (c *Catalog) RandomParagraph() string {
	return c.Paragraphs[rand.IntN(len(c.Paragraphs))]
}

// IconSet returns a fresh copy of the icon list; callers may mutate it freely.
func (c *Catalog) IconSet() []string {
	return slices.Clone(c.Icons)
}
