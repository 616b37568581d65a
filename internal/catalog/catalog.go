// Package catalog loads the read-only site content: demo scripts,
// architecture steps, benchmark results, installation guide and citation.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/weaver-tableqa/weaversite/pkg/core"
)

//go:embed catalog.yaml
var embedded []byte

// ErrNotFound is returned by lookups for unknown IDs.
var ErrNotFound = errors.New("not found")

// Catalog is the complete site content. It is never mutated after Load.
type Catalog struct {
	Site         core.SiteInfo           `yaml:"site"`
	Nav          []core.NavItem          `yaml:"nav"`
	Sections     []core.Section          `yaml:"sections"`
	Examples     []core.DemoExample      `yaml:"examples"`
	Architecture []core.ArchitectureStep `yaml:"architecture"`
	Pipeline     []core.PipelineNode     `yaml:"pipeline"`
	Datasets     []core.Dataset          `yaml:"datasets"`
	Install      []core.InstallTab       `yaml:"install"`
	Citation     core.Citation           `yaml:"citation"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(embedded)
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load parses, validates and renders a catalog.
func Load(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.render(); err != nil {
		return nil, fmt.Errorf("failed to render catalog prose: %w", err)
	}
	return &c, nil
}

func (c *Catalog) render() error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	fields := []struct {
		src string
		dst *string
	}{
		{c.Site.HeroMarkdown, &c.Site.HeroHTML},
		{c.Site.AbstractMarkdown, &c.Site.AbstractHTML},
		{c.Site.FooterMarkdown, &c.Site.FooterHTML},
	}
	for _, f := range fields {
		var buf bytes.Buffer
		if err := md.Convert([]byte(f.src), &buf); err != nil {
			return err
		}
		*f.dst = buf.String()
	}
	return nil
}

// Example returns the demo example with the given ID.
func (c *Catalog) Example(id string) (*core.DemoExample, error) {
	for i := range c.Examples {
		if c.Examples[i].ID == id {
			return &c.Examples[i], nil
		}
	}
	return nil, fmt.Errorf("example %q: %w", id, ErrNotFound)
}

// ExampleIDs returns demo example IDs in catalog order.
func (c *Catalog) ExampleIDs() []string {
	ids := make([]string, len(c.Examples))
	for i, e := range c.Examples {
		ids[i] = e.ID
	}
	return ids
}

// Step returns the architecture step with the given ID.
func (c *Catalog) Step(id string) (*core.ArchitectureStep, error) {
	for i := range c.Architecture {
		if c.Architecture[i].ID == id {
			return &c.Architecture[i], nil
		}
	}
	return nil, fmt.Errorf("architecture step %q: %w", id, ErrNotFound)
}

// StepIDs returns architecture step IDs in catalog order.
func (c *Catalog) StepIDs() []string {
	ids := make([]string, len(c.Architecture))
	for i, s := range c.Architecture {
		ids[i] = s.ID
	}
	return ids
}

// Dataset returns the benchmark with the given ID.
func (c *Catalog) Dataset(id string) (*core.Dataset, error) {
	for i := range c.Datasets {
		if c.Datasets[i].ID == id {
			return &c.Datasets[i], nil
		}
	}
	return nil, fmt.Errorf("dataset %q: %w", id, ErrNotFound)
}

// DatasetIDs returns dataset IDs in catalog order.
func (c *Catalog) DatasetIDs() []string {
	ids := make([]string, len(c.Datasets))
	for i, d := range c.Datasets {
		ids[i] = d.ID
	}
	return ids
}

// ModelIDs returns the models measured on a dataset, or nil for an unknown
// dataset.
func (c *Catalog) ModelIDs(datasetID string) []string {
	d, err := c.Dataset(datasetID)
	if err != nil {
		return nil
	}
	return d.ModelIDs()
}

// InstallTab returns the installation tab with the given ID.
func (c *Catalog) InstallTab(id string) (*core.InstallTab, error) {
	for i := range c.Install {
		if c.Install[i].ID == id {
			return &c.Install[i], nil
		}
	}
	return nil, fmt.Errorf("install tab %q: %w", id, ErrNotFound)
}

// InstallTabIDs returns installation tab IDs in catalog order.
func (c *Catalog) InstallTabIDs() []string {
	ids := make([]string, len(c.Install))
	for i, t := range c.Install {
		ids[i] = t.ID
	}
	return ids
}

// InstallStep finds an installation step by ID across all tabs.
func (c *Catalog) InstallStep(id string) (*core.InstallStep, error) {
	for i := range c.Install {
		for j := range c.Install[i].Steps {
			if c.Install[i].Steps[j].ID == id {
				return &c.Install[i].Steps[j], nil
			}
		}
	}
	return nil, fmt.Errorf("install step %q: %w", id, ErrNotFound)
}

// Section returns the page section with the given ID.
func (c *Catalog) Section(id string) (*core.Section, error) {
	for i := range c.Sections {
		if c.Sections[i].ID == id {
			return &c.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("section %q: %w", id, ErrNotFound)
}

// HasAnchor reports whether anchor is a navigation target.
func (c *Catalog) HasAnchor(anchor string) bool {
	for _, n := range c.Nav {
		if n.Anchor == anchor {
			return true
		}
	}
	return false
}
