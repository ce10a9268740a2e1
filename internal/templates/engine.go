package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"text/template"
)

type Engine interface {
	Execute(name string, data any) (string, error)
}

// TextTemplateEngine executes text/template files. Templates from the
// override directory replace built-in templates of the same name.
type TextTemplateEngine struct {
	templates *template.Template
	funcs     template.FuncMap
	builtin   fs.FS
	customDir string
}

func NewEngine(builtin fs.FS, customDir string, funcs template.FuncMap) (*TextTemplateEngine, error) {
	e := &TextTemplateEngine{
		builtin:   builtin,
		customDir: customDir,
		funcs:     funcs,
	}
	if err := e.load(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *TextTemplateEngine) load() error {
	e.templates = template.New("").Funcs(e.funcs)

	if err := e.parseDir(e.builtin, "built-in"); err != nil {
		return fmt.Errorf("loading built-in templates: %w", err)
	}

	if e.customDir != "" {
		err := e.parseDir(os.DirFS(e.customDir), "custom")
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading custom templates: %w", err)
		}
	}

	return nil
}

func (e *TextTemplateEngine) parseDir(fsys fs.FS, origin string) error {
	return fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(name) != ".tmpl" {
			return nil
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading %s template %s: %w", origin, name, err)
		}
		name = strings.TrimPrefix(name, "templates/")
		if _, err := e.templates.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("parsing %s template %s: %w", origin, name, err)
		}
		return nil
	})
}

// Names lists the loaded templates.
func (e *TextTemplateEngine) Names() []string {
	var names []string
	for _, t := range e.templates.Templates() {
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	return names
}

func (e *TextTemplateEngine) Execute(name string, data any) (string, error) {
	tmpl := e.templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return buf.String(), nil
}
