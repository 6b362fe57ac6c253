// Package web holds the HTML templates for public profile pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/seeek/portfolio/backend/internal/models"
)

//go:embed templates/*.html
var files embed.FS

// DisplayDateLayout is how portfolio dates are shown
const DisplayDateLayout = "January 2006"

// FuncMap returns the helpers available to the templates
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"deref":      models.Deref,
		"formatDate": FormatDate,
		"isMap": func(v any) bool {
			_, ok := v.(map[string]any)
			return ok
		},
		"label": Label,
	}
}

// Templates parses the embedded templates
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap()).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// FormatDate renders time values with DisplayDateLayout and anything else as text
func FormatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(DisplayDateLayout)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// Label turns a document key such as "start_date" into "Start date"
func Label(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
