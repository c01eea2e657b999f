// Package content holds the page catalogs the companion walks around on:
// about, projects, websites, teaching and a logbook.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	ErrNoSections       = errors.New("catalog has no sections")
	ErrEmptySectionID   = errors.New("section id is empty")
	ErrDuplicateSection = errors.New("duplicate section id")
)

type Link struct {
	Label    string `yaml:"label"`
	Href     string `yaml:"href"`
	External bool   `yaml:"external"`
}

type Entry struct {
	Title       string   `yaml:"title"`
	Tag         string   `yaml:"tag"`
	Description string   `yaml:"description"`
	Meta        []string `yaml:"meta"`
	Links       []Link   `yaml:"links"`
}

// Section is one navigable page region. Tag selects the companion's
// reaction when the section scrolls into focus.
type Section struct {
	ID      string  `yaml:"id"`
	Tag     string  `yaml:"tag"`
	Title   string  `yaml:"title"`
	Intro   string  `yaml:"intro"`
	Entries []Entry `yaml:"entries"`
}

type Catalog struct {
	Sections []Section `yaml:"sections"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Sections) == 0 {
		return nil, ErrNoSections
	}
	seen := make(map[string]bool, len(c.Sections))
	for i, s := range c.Sections {
		if s.ID == "" {
			return nil, fmt.Errorf("section %d: %w", i, ErrEmptySectionID)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("%s: %w", s.ID, ErrDuplicateSection)
		}
		seen[s.ID] = true
	}
	return &c, nil
}

// Section returns the section with id.
func (c *Catalog) Section(id string) (Section, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// IDs lists section ids in document order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		ids[i] = s.ID
	}
	return ids
}
