// Package resources serves the site's static assets.
package resources

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}

// MinifyCSS runs a stylesheet through esbuild's minifier.
func MinifyCSS(src []byte) ([]byte, error) {
	return minify(src, api.LoaderCSS)
}

// MinifyJS runs a browser script through esbuild's minifier.
func MinifyJS(src []byte) ([]byte, error) {
	return minify(src, api.LoaderJS)
}

// minifiers maps asset extensions to their minifier and content type.
var minifiers = map[string]struct {
	fn          func([]byte) ([]byte, error)
	contentType string
}{
	".css": {MinifyCSS, "text/css; charset=utf-8"},
	".js":  {MinifyJS, "text/javascript; charset=utf-8"},
}

func minify(src []byte, loader api.Loader) ([]byte, error) {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:            loader,
		MinifyWhitespace:  true,
		MinifySyntax:      true,
		MinifyIdentifiers: true,
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		var msgs []string
		for _, e := range result.Errors {
			if e.Location != nil {
				msgs = append(msgs, fmt.Sprintf("%d:%d: %s", e.Location.Line, e.Location.Column, e.Text))
				continue
			}
			msgs = append(msgs, e.Text)
		}
		return nil, fmt.Errorf("esbuild errors:\n%s", strings.Join(msgs, "\n"))
	}
	return result.Code, nil
}
