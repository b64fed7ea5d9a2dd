// Package assets embeds the HTML templates the app renders.
package assets

import (
	"embed"
	"html/template"
)

//go:embed templates
var templatesFS embed.FS

// Templates parses every embedded template into one set. Parse failures can
// only come from files baked in at build time, so they panic.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS,
		"templates/*.html", "templates/partials/*.html"))
}
