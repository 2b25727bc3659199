package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Title is shown in the browser tab and the page banner.
const Title = "SiliconFlow Reference Voice Upload Tool"

// FormPage holds the values rendered into the upload form.
type FormPage struct {
	Title        string
	DefaultModel string
	MaxSizeMB    int
}

// RenderForm renders the upload form page.
func RenderForm(page FormPage) ([]byte, error) {
	if page.Title == "" {
		page.Title = Title
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		return nil, fmt.Errorf("failed to render form: %w", err)
	}
	return buf.Bytes(), nil
}
