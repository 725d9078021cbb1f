package project

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var funcMap = template.FuncMap{
	"pyStr": func(s string) string { return strconv.Quote(s) },
	"pyBool": func(b bool) string {
		if b {
			return "True"
		}
		return "False"
	},
	"pyList": func(items []string) string {
		parts := make([]string, len(items))
		for i, s := range items {
			parts[i] = "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `'`, `\'`) + "'"
		}
		return "[" + strings.Join(parts, ", ") + "]"
	},
}

var templates = template.Must(template.New("project").
	Funcs(funcMap).
	Option("missingkey=error").
	ParseFS(templatesFS, "templates/*.tmpl"))

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// RenderSettings renders settings.py.
func RenderSettings(s Settings) ([]byte, error) {
	return render("settings.py.tmpl", s)
}

// RenderRootURLs renders the project's urls.py.
func RenderRootURLs(s Settings) ([]byte, error) {
	return render("urls.py.tmpl", s)
}

// RenderIndex renders the landing page served at "/".
func RenderIndex(s Settings) ([]byte, error) {
	return render("index.html.tmpl", s)
}

// NextSteps returns the post-build shell instructions as Markdown.
func NextSteps(s Settings) (string, error) {
	b, err := render("next_steps.md.tmpl", s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type authData struct {
	UserModel       string
	MaxImageBytes   int
	MaxImageLabel   string
	ImageExtensions []string
}

var authDefaults = authData{
	UserModel:       UserModel,
	MaxImageBytes:   10 << 20,
	MaxImageLabel:   "10MB",
	ImageExtensions: []string{"jpeg", "jpg", "png", "gif"},
}
