package core

// Section is a top-level page section that reveals itself on first view.
type Section struct {
	// ID doubles as the navigation anchor
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	// Subtitle is rendered under the section title
	Subtitle string `yaml:"subtitle"`
	// Children is the number of staggered blocks inside the section
	Children int `yaml:"children"`
	// StaggerMillis overrides the default per-child stagger when non-zero
	StaggerMillis int `yaml:"stagger_ms"`
}

// NavItem is an in-page navigation entry.
type NavItem struct {
	Label  string `yaml:"label"`
	Anchor string `yaml:"anchor"`
}

// Link is an outbound link (paper, poster, code).
type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// SiteInfo holds the page-wide prose. Markdown fields are rendered
// into their HTML counterparts when the catalog is loaded.
type SiteInfo struct {
	Title            string `yaml:"title"`
	Subtitle         string `yaml:"subtitle"`
	Venue            string `yaml:"venue"`
	HeroMarkdown     string `yaml:"hero"`
	AbstractMarkdown string `yaml:"abstract"`
	FooterMarkdown   string `yaml:"footer"`
	Links            []Link `yaml:"links"`

	HeroHTML     string `yaml:"-"`
	AbstractHTML string `yaml:"-"`
	FooterHTML   string `yaml:"-"`
}

// ArchitectureStep describes one stage of the pipeline.
type ArchitectureStep struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Details     []string `yaml:"details"`
}

// PipelineNode is one box in the pipeline flow diagram.
type PipelineNode struct {
	// Kind is one of input, step, output
	Kind  string `yaml:"kind"`
	Label string `yaml:"label"`
}

// MethodResult is a single accuracy figure in a comparison.
type MethodResult struct {
	Method   string  `yaml:"method"`
	Accuracy float64 `yaml:"accuracy"`
	Ours     bool    `yaml:"ours"`
}

// ModelResults groups method results measured with one backbone model.
type ModelResults struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	ShortName string         `yaml:"short_name"`
	Results   []MethodResult `yaml:"results"`
}

// Best returns the highest accuracy among the results.
func (m *ModelResults) Best() float64 {
	var best float64
	for _, r := range m.Results {
		if r.Accuracy > best {
			best = r.Accuracy
		}
	}
	return best
}

// Dataset is a benchmark with per-model results.
type Dataset struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Models      []ModelResults `yaml:"models"`
}

// ModelIDs returns the model keys available for the dataset, in catalog order.
func (d *Dataset) ModelIDs() []string {
	ids := make([]string, 0, len(d.Models))
	for _, m := range d.Models {
		ids = append(ids, m.ID)
	}
	return ids
}

// Model looks up a model by ID.
func (d *Dataset) Model(id string) (*ModelResults, bool) {
	for i := range d.Models {
		if d.Models[i].ID == id {
			return &d.Models[i], true
		}
	}
	return nil, false
}

// InstallStep is a copyable shell snippet.
type InstallStep struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

// InstallTab is one tab of the installation guide.
type InstallTab struct {
	ID    string        `yaml:"id"`
	Label string        `yaml:"label"`
	Steps []InstallStep `yaml:"steps"`
}

// Author is a paper author.
type Author struct {
	Name        string `yaml:"name"`
	Affiliation string `yaml:"affiliation"`
	Role        string `yaml:"role"`
	Email       string `yaml:"email"`
}

// Citation holds the BibTeX entry and the author list.
type Citation struct {
	BibTeX  string   `yaml:"bibtex"`
	Authors []Author `yaml:"authors"`
}
