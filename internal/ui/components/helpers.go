// Package components renders the site as templ components.
package components

//go:generate templ generate

import "fmt"

// DatastarScript is the client runtime.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// MainID is the element patched by every update.
const MainID = "main"

// post is a datastar action that posts to path.
func post(path string) string {
	return "@post('" + path + "')"
}

// get is a datastar action that gets path.
func get(path string) string {
	return "@get('" + path + "')"
}

func barStyle(width float64) string {
	return fmt.Sprintf("width: %.1f%%", width)
}

func accuracy(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func copyLabel(copied bool) string {
	if copied {
		return "Copied!"
	}
	return "Copy"
}
