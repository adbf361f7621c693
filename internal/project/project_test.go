package project

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/stimref/internal/discover"
	"github.com/phobologic/stimref/internal/model"
)

func testProject(t *testing.T, opts ...Option) *Project {
	t.Helper()
	fsys := fstest.MapFS{
		"app/controllers/hello_controller.js": {Data: []byte(`export default class extends Controller {}`)},
		"app/controllers/admin/hello_controller.js": {Data: []byte(`class Admin {}
export default Admin`)},
		"app/controllers/broken_controller.js": {Data: []byte{0xff, 0xfe}},
		"app/views/index.html":                 {Data: []byte(`<div data-controller="hello"></div>`)},
	}
	entries := []discover.FileEntry{
		{Path: "app/views/index.html", Kind: discover.Markup},
		{Path: "app/controllers/hello_controller.js", Kind: discover.Script},
		{Path: "app/controllers/admin/hello_controller.js", Kind: discover.Script},
		{Path: "app/controllers/broken_controller.js", Kind: discover.Script},
	}
	return New(fsys, entries, opts...)
}

func TestFilesByName(t *testing.T) {
	t.Parallel()

	p := testProject(t)
	assert.Equal(t, []string{
		"app/controllers/admin/hello_controller.js",
		"app/controllers/hello_controller.js",
	}, p.FilesByName("hello_controller.js"))
	assert.Empty(t, p.FilesByName("missing_controller.js"))
}

func TestFilesPredicate(t *testing.T) {
	t.Parallel()

	p := testProject(t)
	got := p.Files(func(path string) bool { return strings.HasSuffix(path, ".html") })
	assert.Equal(t, []string{"app/views/index.html"}, got)

	assert.Equal(t, []string{"app/views/index.html"}, p.OfKind(discover.Markup))
	assert.Len(t, p.OfKind(discover.Script), 3)
}

func TestDefaultExportClass(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := testProject(t, WithLogger(logger))

	var scripts model.ScriptIndex = p

	c, ok := scripts.DefaultExportClass("app/controllers/hello_controller.js")
	require.True(t, ok)
	assert.Equal(t, "Controller", c.Extends)

	c, ok = scripts.DefaultExportClass("app/controllers/admin/hello_controller.js")
	require.True(t, ok)
	assert.Equal(t, "Admin", c.Name)

	_, ok = scripts.DefaultExportClass("app/controllers/broken_controller.js")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "script unavailable")

	_, ok = scripts.DefaultExportClass("app/controllers/gone_controller.js")
	assert.False(t, ok)
}

func TestMarkup(t *testing.T) {
	t.Parallel()

	p := testProject(t)
	doc, err := p.Markup("app/views/index.html")
	require.NoError(t, err)
	require.Len(t, doc.Elements, 1)
	v, ok := doc.Elements[0].AttributeValue("data-controller")
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	_, err = p.Markup("app/views/missing.html")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "controllers", "hello_controller.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`export default class {}`), 0o644))

	p, err := Open(dir, discover.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, dir, p.Root())
	assert.Equal(t, []string{"controllers/hello_controller.js"}, p.FilesByName("hello_controller.js"))

	_, ok := p.DefaultExportClass("controllers/hello_controller.js")
	assert.True(t, ok)
}
