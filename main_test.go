package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const sampleController = `import { Controller } from "@hotwired/stimulus"

export default class extends Controller {
  static targets = ["name", "output"]
  static values = { count: Number }

  greet() {
    this.outputTarget.textContent = this.nameTarget.value
    this.countValue++
    this.missingTarget.hidden = true
  }
}
`

const sampleTemplate = `<main data-controller="hello">
  <input data-hello-target="name">
  <span data-hello-target="output"></span>
  <button data-action="click->hello#greet">Go</button>
</main>
<nav data-controller="ghost"></nav>
`

func createSampleProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "app/javascript/controllers/hello_controller.js", sampleController)
	writeTestFile(t, dir, "app/javascript/controllers/idle_controller.js", "export default class Idle {}\n")
	writeTestFile(t, dir, "app/views/index.html", sampleTemplate)
	return dir
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "stimref dev\n", out)
}

func TestRunID(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "id",
		"app/javascript/controllers/users/list_item_controller.js",
		"app/javascript/controllers/hello_controller.ts",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "identifiers[2]{path,identifier}:")
	assert.Contains(t, out, ",users--list-item\n")
	assert.Contains(t, out, ",hello")
}

func TestRunIDRequiresPath(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "id")
	assert.Error(t, err)
}

func TestRunControllers(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	out, stderr, err := runCLI(t, "controllers", dir)
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "controllers[2]{identifier,file,class,candidates}:")
	assert.Contains(t, out, "hello,app/javascript/controllers/hello_controller.js")
	assert.Contains(t, out, "idle,app/javascript/controllers/idle_controller.js,Idle,1")
}

func TestRunResolve(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	out, stderr, err := runCLI(t, "resolve", "hello", "--root", dir)
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "identifier: hello")
	assert.Contains(t, out, "file: app/javascript/controllers/hello_controller.js")
	assert.Contains(t, out, "extends: Controller")
	assert.Contains(t, out, "target,name,")
	assert.Contains(t, out, "target,output,")
	assert.Contains(t, out, "value,count,Number")
	assert.Contains(t, out, "method,greet,")
}

func TestRunResolveUnknown(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	_, _, err := runCLI(t, "resolve", "ghost", "--root", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown controller "ghost"`)
}

func TestRunRefs(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	out, stderr, err := runCLI(t, "refs", "app/views/index.html", "--root", dir)
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "file: app/views/index.html")
	assert.Contains(t, out, "references[4]{line,column,attribute,kind,text,status,file}:")
	assert.Contains(t, out, "1,24,data-controller,controller,hello,resolved,app/javascript/controllers/hello_controller.js")
	assert.Contains(t, out, "method,hello#greet,resolved")
	assert.Contains(t, out, "6,23,data-controller,controller,ghost,unresolved,")
}

func TestRunRefsMissingFile(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	_, _, err := runCLI(t, "refs", "app/views/missing.html", "--root", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such file")
}

func TestRunProps(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	out, stderr, err := runCLI(t, "props", "app/javascript/controllers/hello_controller.js", "--root", dir)
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "accesses[4]{line,column,name,class,kind,declaration}:")
	assert.Contains(t, out, "outputTarget,(anonymous),target,output")
	assert.Contains(t, out, "countValue,(anonymous),value,count")
	assert.Contains(t, out, "missingTarget,(anonymous),none,")
	assert.Contains(t, out, "(anonymous),targets,static,implicit")
	assert.Contains(t, out, "(anonymous),greet,instance,unused")
	assert.Contains(t, out, `(anonymous),"","",implicit`)
}

func TestRunAttrs(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	out, stderr, err := runCLI(t, "attrs", "app/views/index.html", "--root", dir)
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "1,main,data-hello-target,name output,app/javascript/controllers/hello_controller.js")
	assert.Contains(t, out, `1,main,data-hello-count-value,"",app/javascript/controllers/hello_controller.js`)
	assert.Contains(t, out, "2,input,data-hello-target,name output,")
	assert.NotContains(t, out, ",nav,")

	all, _, err := runCLI(t, "attrs", "--all", "app/views/index.html", "--root", dir)
	require.NoError(t, err)
	assert.Contains(t, all, `6,nav,data-controller,"",""`)
}

func TestRunCheck(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	out, stderr, err := runCLI(t, "check", dir)
	require.ErrorIs(t, err, errProblems)
	assert.Contains(t, out, "problems[2]{file,line,column,kind,text,message}:")
	assert.Contains(t, out, "app/javascript/controllers/hello_controller.js,10,10,property,missingTarget")
	assert.Contains(t, out, "app/views/index.html,6,23,controller,ghost")
	assert.Contains(t, stderr, "2 problems found")
}

func TestRunCheckClean(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "app/javascript/controllers/idle_controller.js", "export default class Idle { run() {} }\n")
	writeTestFile(t, dir, "app/views/index.html", `<div data-controller="idle" data-action="idle#run"></div>`)

	out, stderr, err := runCLI(t, "check", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "no problems found")
}

func TestRunUsages(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	out, stderr, err := runCLI(t, "usages", dir)
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "root: "+filepath.Base(dir))
	assert.Contains(t, out, "controllers[2]{identifier,file,references,rank,status}:")
	assert.Contains(t, out, "hello,app/javascript/controllers/hello_controller.js,2,")
	assert.Contains(t, out, "idle,app/javascript/controllers/idle_controller.js,0,")
	assert.Contains(t, out, ",unused")
	assert.Contains(t, out, "app/views/index.html,app/javascript/controllers/hello_controller.js,hello")

	unused, _, err := runCLI(t, "usages", "--unused", dir)
	require.NoError(t, err)
	assert.Contains(t, unused, "controllers[1]")
	assert.Contains(t, unused, "idle,")
	assert.Contains(t, unused, "dependencies[0]")
}

func TestRunUsagesFilters(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	out, _, err := runCLI(t, "usages", "--controller", "idle", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "controllers[1]")
	assert.NotContains(t, out, "hello")

	out, _, err = runCLI(t, "usages", "-n", "1", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "controllers[1]")
	assert.Contains(t, out, "hello,")
}

func TestRunYAMLFormat(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	out, stderr, err := runCLI(t, "--format", "yaml", "usages", dir)
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "controllers:\n")
	assert.Contains(t, out, "identifier: hello")
	assert.Contains(t, out, "references: 2")
}

func TestRunUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "--format", "json", "id", "a_controller.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestRunRootErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	writeTestFile(t, dir, "file.txt", "x")

	_, _, err := runCLI(t, "check", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")

	_, _, err = runCLI(t, "check", filepath.Join(dir, "missing"))
	require.Error(t, err)

	_, _, err = runCLI(t, "check", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no script or markup files")
}

func TestRunConfigFile(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)
	writeTestFile(t, dir, ".stimref.yaml", "exclude:\n  - idle_controller.js\n")

	out, _, err := runCLI(t, "controllers", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "controllers[1]")
	assert.NotContains(t, out, "idle")
}

func TestRunInvalidConfig(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)
	writeTestFile(t, dir, ".stimref.yaml", "maxFileSize: 0\n")

	_, _, err := runCLI(t, "controllers", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxFileSize")
}

func TestRunLogLevel(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	_, stderr, err := runCLI(t, "--log-level", "debug", "controllers", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "project loaded")

	_, stderr, err = runCLI(t, "controllers", dir)
	require.NoError(t, err)
	assert.False(t, strings.Contains(stderr, "project loaded"))
}
