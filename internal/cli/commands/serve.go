package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the paper site",
		Long: `Start the web server for the Weaver paper site.

Every visitor gets their own demo, tab and copy state, kept on the server
and streamed to the browser.`,
		Example: `  # Serve on the default port
  weaversite serve

  # Serve custom content with live reload
  weaversite serve --dev --catalog ./catalog.yaml

  # Serve on a custom port and open a browser
  weaversite serve --port 3000 --open`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	// Keys in config.flagKeys
	cmd.Flags().Int("port", 0, "Port to serve on (default: 8080)")
	cmd.Flags().Bool("dev", false, "Reload browsers when content or styles change")
	cmd.Flags().String("catalog", "", "Catalog file replacing the built-in content")
	cmd.Flags().Bool("open", false, "Open the site in a browser")
	cmd.Flags().Bool("secure-cookies", false, "Mark visitor cookies Secure (serve behind HTTPS only)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := getConfig(cmd.Context())
	logger := getLogger(cmd.Context())
	r := newRenderer(cmd, cfg)

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	reg := site.NewRegistry(cat, cfg.SiteConfig(), cfg.Session.IdleTimeout, logger)
	server, err := ui.NewServer(ui.Config{
		Registry:      reg,
		Port:          cfg.Port,
		Dev:           cfg.Dev,
		SessionSecret: cfg.Session.Secret,
		SecureCookies: cfg.Session.Secure,
		CatalogPath:   cfg.CatalogPath,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	if cfg.AutoOpen {
		go openBrowser(url)
	}

	r.Printf("Serving %s on %s\n", cat.Site.Title, r.Styles().Info.Render(url))
	r.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}
