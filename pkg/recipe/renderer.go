package recipe

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"unicode"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names.
const (
	RecipeTemplate    = "conanfile.py.tmpl"
	ConanfileTemplate = "conanfile.txt.tmpl"
	WorkspaceTemplate = "workspace.cmake.tmpl"
)

// Renderer is a parsed template set. It is created once per command and
// passed to whatever needs to render; nothing about it is global.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the built-in templates.
func NewRenderer() (*Renderer, error) {
	return NewRendererFS(templateFS, "templates/*.tmpl")
}

// NewRendererFS parses templates matching patterns from fsys. Templates are
// addressed by base name.
func NewRendererFS(fsys fs.FS, patterns ...string) (*Renderer, error) {
	tmpl, err := template.New("recipe").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"lower": strings.ToLower,
			"ident": ident,
		}).
		ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// ident turns a library name into a Python identifier.
func ident(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)
}

// RecipeData is the input of [RecipeTemplate].
type RecipeData struct {
	Name             string
	Alias            string
	Version          string
	User             string
	Channel          string
	Dependencies     []string
	TestDependencies []string
}

// ConanfileData is the input of [ConanfileTemplate].
type ConanfileData struct {
	Requires   []string
	Generators []string
}

// WorkspaceData is the input of [WorkspaceTemplate].
type WorkspaceData struct {
	Libraries []string
}
