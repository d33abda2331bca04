// Package web holds the HTML templates of the catalog.
package web

import (
	"embed"
	"html"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// FuncMap is available in every template. Stored text is HTML-escaped on the way in,
// so templates unescape it and let html/template escape it again on output.
var FuncMap = template.FuncMap{
	"unescape": html.UnescapeString,
}

// Templates parses the embedded template set
func Templates() (*template.Template, error) {
	return template.New("catalog").Funcs(FuncMap).ParseFS(templateFS, "templates/*.tmpl")
}
