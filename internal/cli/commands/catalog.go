package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/weaver-tableqa/weaversite/internal/catalog"
	"github.com/weaver-tableqa/weaversite/internal/cli/output"
	"github.com/weaver-tableqa/weaversite/internal/site"
)

// catalogViews lists what the catalog command can show.
var catalogViews = []string{"examples", "architecture", "results", "install"}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand() *cobra.Command {
	var dataset string

	cmd := &cobra.Command{
		Use:   "catalog [examples|architecture|results|install]",
		Short: "Show the site content",
		Long: `Validate the site catalog and print its content as tables.

Loading fails on any structural problem, so this doubles as a check for
edited catalog files.`,
		Example: `  # Check an edited catalog
  weaversite catalog --catalog ./catalog.yaml

  # Results for one dataset as markdown
  weaversite catalog results --dataset finqa -o markdown`,
		ValidArgs: catalogViews,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := "examples"
			if len(args) == 1 {
				view = args[0]
			}
			return runCatalog(cmd, view, dataset)
		},
	}

	cmd.Flags().String("catalog", "", "Catalog file replacing the built-in content")
	cmd.Flags().StringVar(&dataset, "dataset", "", "Only show results for this dataset")

	return cmd
}

func runCatalog(cmd *cobra.Command, view, dataset string) error {
	cfg := getConfig(cmd.Context())
	r := newRenderer(cmd, cfg)

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	var tables []titledTable
	switch view {
	case "examples":
		tables = exampleTables(cat)
	case "architecture":
		tables = architectureTables(cat)
	case "results":
		tables, err = resultTables(cat, dataset)
	case "install":
		tables = installTables(cat)
	default:
		err = fmt.Errorf("unknown view %q", view)
	}
	if err != nil {
		return err
	}

	return renderTables(r, tables)
}

// titledTable is a headed table of plain cells.
type titledTable struct {
	Title  string     `json:"title"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
	// highlight marks rows the text view emphasizes
	highlight map[int]bool
}

func renderTables(r *output.Renderer, tables []titledTable) error {
	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		return r.JSON(tables)
	}

	for i, tt := range tables {
		if i > 0 {
			r.Println()
		}

		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.AppendHeader(toRow(tt.Header))
		for j, row := range tt.Rows {
			cells := row
			if mode == output.ModeText && tt.highlight[j] {
				cells = make([]string, len(row))
				for k, c := range row {
					cells[k] = r.Styles().Highlight.Render(c)
				}
			}
			t.AppendRow(toRow(cells))
		}

		if mode == output.ModeMarkdown {
			r.Println(output.FormatHeader(2, tt.Title))
			t.RenderMarkdown()
			continue
		}
		r.Println(r.Styles().Header.Render(tt.Title))
		t.SetStyle(table.StyleLight)
		t.Render()
	}
	return nil
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func exampleTables(cat *catalog.Catalog) []titledTable {
	var out []titledTable
	for _, ex := range cat.Examples {
		tt := titledTable{
			Title:  fmt.Sprintf("%s (%s)", ex.Title, ex.ID),
			Header: []string{"#", "Kind", "Step", "Result"},
		}
		for i, st := range ex.Steps {
			tt.Rows = append(tt.Rows, []string{fmt.Sprint(i + 1), site.KindLabel(st.Kind), st.Description, st.Result})
		}
		tt.Rows = append(tt.Rows, []string{"", "", "Answer", ex.Answer})
		tt.highlight = map[int]bool{len(tt.Rows) - 1: true}
		out = append(out, tt)
	}
	return out
}

func architectureTables(cat *catalog.Catalog) []titledTable {
	tt := titledTable{
		Title:  "Architecture",
		Header: []string{"Stage", "Description", "Details"},
	}
	for _, st := range cat.Architecture {
		tt.Rows = append(tt.Rows, []string{st.Title, st.Description, strings.Join(st.Details, "; ")})
	}
	return []titledTable{tt}
}

func resultTables(cat *catalog.Catalog, only string) ([]titledTable, error) {
	if only != "" {
		if _, err := cat.Dataset(only); err != nil {
			return nil, err
		}
	}

	var out []titledTable
	for _, ds := range cat.Datasets {
		if only != "" && ds.ID != only {
			continue
		}
		for i := range ds.Models {
			m := &ds.Models[i]
			tt := titledTable{
				Title:     fmt.Sprintf("%s / %s", ds.Name, m.Name),
				Header:    []string{"Method", "Accuracy"},
				highlight: map[int]bool{},
			}
			// Ranked the way the site draws its bars
			for j, b := range site.ResultBars(m) {
				tt.Rows = append(tt.Rows, []string{b.Method, fmt.Sprintf("%.1f", b.Accuracy)})
				if b.Ours {
					tt.highlight[j] = true
				}
			}
			out = append(out, tt)
		}
	}
	return out, nil
}

func installTables(cat *catalog.Catalog) []titledTable {
	var out []titledTable
	for _, tab := range cat.Install {
		tt := titledTable{
			Title:  tab.Label,
			Header: []string{"ID", "Step", "Command"},
		}
		for _, st := range tab.Steps {
			tt.Rows = append(tt.Rows, []string{st.ID, st.Title, st.Code})
		}
		out = append(out, tt)
	}
	return out
}
