package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinifyCSS(t *testing.T) {
	out, err := MinifyCSS([]byte("body {\n  color: #ffffff;\n  margin: 0px;\n}\n"))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "\n  ")
	assert.Contains(t, string(out), "body{")
}

func TestMinifyCSS_ShrinksStylesheet(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("static", "site.css"))
	require.NoError(t, err)

	out, err := MinifyCSS(src)
	require.NoError(t, err)
	assert.Less(t, len(out), len(src))
	assert.Contains(t, string(out), ".reveal-item.visible")
}

func TestMinifyJS(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("static", "reveal.js"))
	require.NoError(t, err)

	out, err := MinifyJS(src)
	require.NoError(t, err)
	assert.Less(t, len(out), len(src))
	assert.Contains(t, string(out), "/reveal/")
	assert.Contains(t, string(out), "intersectionRatio")
}

func TestMinifyJS_SyntaxError(t *testing.T) {
	_, err := MinifyJS([]byte("const = ;"))
	assert.Error(t, err)
}

func TestStaticPath(t *testing.T) {
	assert.Equal(t, "/static/site.css", StaticPath("site.css"))
}
