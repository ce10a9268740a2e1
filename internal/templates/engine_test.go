package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"text/template"

	"github.com/stretchr/testify/require"
)

var builtin = fstest.MapFS{
	"go/greeting.tmpl": {Data: []byte(`hello {{upper .}}`)},
	"go/notes.txt":     {Data: []byte(`ignored {{`)},
}

var funcs = template.FuncMap{"upper": strings.ToUpper}

func TestEngineExecute(t *testing.T) {
	e, err := NewEngine(builtin, "", funcs)
	require.NoError(t, err)

	out, err := e.Execute("go/greeting.tmpl", "library")
	require.NoError(t, err)
	require.Equal(t, "hello LIBRARY", out)

	_, err = e.Execute("go/missing.tmpl", nil)
	require.EqualError(t, err, "template not found: go/missing.tmpl")
	require.NotContains(t, e.Names(), "go/notes.txt")
}

func TestEngineCustomOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "go"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go", "greeting.tmpl"), []byte(`bye {{.}}`), 0o644))

	e, err := NewEngine(builtin, dir, funcs)
	require.NoError(t, err)

	out, err := e.Execute("go/greeting.tmpl", "user")
	require.NoError(t, err)
	require.Equal(t, "bye user", out)
}

func TestEngineMissingCustomDir(t *testing.T) {
	_, err := NewEngine(builtin, filepath.Join(t.TempDir(), "absent"), funcs)
	require.NoError(t, err)
}

func TestEngineErrors(t *testing.T) {
	tests := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr string
	}{
		{
			name:    "parse",
			fsys:    fstest.MapFS{"go/bad.tmpl": {Data: []byte(`{{if}}`)}},
			wantErr: "parsing built-in template go/bad.tmpl",
		},
		{
			name:    "unknown function",
			fsys:    fstest.MapFS{"go/bad.tmpl": {Data: []byte(`{{snake .}}`)}},
			wantErr: "parsing built-in template go/bad.tmpl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.fsys, "", funcs)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}

	e, err := NewEngine(fstest.MapFS{"go/field.tmpl": {Data: []byte(`{{.Missing.Field}}`)}}, "", funcs)
	require.NoError(t, err)
	_, err = e.Execute("go/field.tmpl", struct{ Missing *struct{ Field string } }{})
	require.ErrorContains(t, err, "executing template go/field.tmpl")
}
