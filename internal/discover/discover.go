// Package discover finds script and markup files in a project.
package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
)

// Kind tells scripts from markup.
type Kind string

const (
	Script Kind = "script"
	Markup Kind = "markup"
)

// FileEntry represents a discovered file.
type FileEntry struct {
	Path string // Relative to project root, forward slashes
	Kind Kind
}

// Options selects which files are returned.
type Options struct {
	// ScriptExtensions and MarkupExtensions are matched as case-insensitive
	// name suffixes, so ".html.erb" works as well as ".ts".
	ScriptExtensions []string
	MarkupExtensions []string
	// Exclude holds extra gitignore-style patterns.
	Exclude []string
}

// DefaultOptions returns the extensions a Stimulus project usually carries.
func DefaultOptions() Options {
	return Options{
		ScriptExtensions: []string{".js", ".ts"},
		MarkupExtensions: []string{".html", ".htm", ".html.erb", ".xhtml"},
	}
}

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	"vendor":       {},
	"tmp":          {},
	"log":          {},
	"coverage":     {},
	"build":        {},
	"dist":         {},
	".yarn":        {},
}

// Files discovers script and markup files under root, sorted by path.
func Files(root string, opts Options) ([]FileEntry, error) {
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}
	var excluded *ignore.GitIgnore
	if len(opts.Exclude) > 0 {
		excluded = ignore.CompileIgnoreLines(opts.Exclude...)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if gitFiles != nil {
			if _, ok := gitFiles[rel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if excluded != nil && excluded.MatchesPath(rel) {
			return nil
		}

		kind, ok := classify(name, opts)
		if !ok {
			return nil
		}

		results = append(results, FileEntry{Path: rel, Kind: kind})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func classify(name string, opts Options) (Kind, bool) {
	lower := strings.ToLower(name)
	for _, ext := range opts.ScriptExtensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return Script, true
		}
	}
	for _, ext := range opts.MarkupExtensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return Markup, true
		}
	}
	return "", false
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
