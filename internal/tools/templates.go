package tools

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tpl"))

// render executes the named embedded template against data and returns the
// result. Template names are the file's base name, e.g. "item.java.tpl".
func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("tools: render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
