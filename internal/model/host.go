package model

// FileIndex answers project-wide file lookups. Paths are project-relative
// and use forward slashes.
type FileIndex interface {
	// FilesByName returns every file whose base name equals name.
	FilesByName(name string) []string
	// Files returns every file for which match returns true.
	Files(match func(path string) bool) []string
}

// ScriptIndex resolves module exports.
type ScriptIndex interface {
	// DefaultExportClass returns the class a file exports as default.
	// It returns false when the file cannot be parsed or its default export
	// is not a class.
	DefaultExportClass(path string) (*Class, bool)
}

// Tag is the markup element view needed to walk declaring controllers.
type Tag interface {
	TagName() string
	// ParentTag returns nil for a root element.
	ParentTag() Tag
	AttributeValue(name string) (string, bool)
}
