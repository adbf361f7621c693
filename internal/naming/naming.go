// Package naming maps controller source paths to Stimulus identifiers and back
// to candidate file names.
package naming

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ControllersDir is the directory name that roots controller namespaces.
const ControllersDir = "controllers"

// NamespaceSeparator joins directory segments and the base identifier.
const NamespaceSeparator = "--"

var controllerSuffixes = []string{"_controller", "-controller"}

// ScriptExtensions are the extensions a controller file may carry.
var ScriptExtensions = []string{"js", "ts"}

// Identifier returns the controller identifier for a file path.
// It depends on nothing but the path itself.
func Identifier(p string) string {
	p = filepath.ToSlash(p)
	base := trimControllerSuffix(strings.TrimSuffix(path.Base(p), path.Ext(p)))
	base = strings.ReplaceAll(base, "_", "-")

	dir := path.Dir(p)
	if dir == "." || dir == "/" || path.Base(dir) == ControllersDir {
		return base
	}

	segments := strings.Split(strings.Trim(dir, "/"), "/")
	root := -1
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == ControllersDir {
			root = i
			break
		}
	}
	if root < 0 {
		return base
	}

	rel := segments[root+1:]
	if len(rel) == 0 {
		return base
	}
	prefix := strings.ReplaceAll(strings.Join(rel, "/"), "_", "-")
	prefix = strings.ReplaceAll(prefix, "/", NamespaceSeparator)
	return prefix + NamespaceSeparator + base
}

// trimControllerSuffix strips _controller, or failing that -controller.
func trimControllerSuffix(name string) string {
	for _, suffix := range controllerSuffixes {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			return trimmed
		}
	}
	return name
}

// ShortName strips the namespace prefix from an identifier. A separator at
// index 0 is not treated as a namespace.
func ShortName(id string) string {
	i := strings.LastIndex(id, NamespaceSeparator)
	if i <= 0 {
		return id
	}
	return id[i+len(NamespaceSeparator):]
}

// CandidateNames returns the exact file names a controller with the given
// identifier may be stored under, underscore form first.
func CandidateNames(id string) []string {
	short := ShortName(id)
	underscored := strings.ReplaceAll(short, "-", "_")
	names := make([]string, 0, 2*len(ScriptExtensions))
	for _, ext := range ScriptExtensions {
		names = append(names, underscored+"_controller."+ext)
		names = append(names, short+"-controller."+ext)
	}
	return names
}

// IsControllerFile reports whether a file name follows the controller
// naming convention.
func IsControllerFile(name string) bool {
	name = path.Base(filepath.ToSlash(name))
	for _, ext := range ScriptExtensions {
		stem, ok := strings.CutSuffix(name, "."+ext)
		if !ok {
			continue
		}
		for _, suffix := range controllerSuffixes {
			if strings.HasSuffix(stem, suffix) {
				return true
			}
		}
	}
	return false
}

// CamelCase converts kebab-case or snake_case to lowerCamelCase.
// Text that is already camel case is returned unchanged.
func CamelCase(s string) string {
	if !strings.ContainsAny(s, "-_") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	upper := false
	for _, r := range s {
		if r == '-' || r == '_' {
			upper = b.Len() > 0
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Decapitalize lowercases the first rune of s. Names that start with two
// capitals (URL, ID) are acronyms and stay as they are.
func Decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return s
	}
	if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(next) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
