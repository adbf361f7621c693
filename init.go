package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/stimref/internal/config"
)

const configHeader = `# stimref configuration.
# Environment variables override these values: STIMREF_LOG_LEVEL,
# STIMREF_MAX_FILE_SIZE, STIMREF_EXCLUDE, STIMREF_SCRIPT_EXTENSIONS and
# STIMREF_MARKUP_EXTENSIONS.`

// newInitCmd implements `stimref init`, which writes (or completes) the
// project config file.
func newInitCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "init [root]",
		Short: "Write a default " + config.FileName,
		Long: `Write a ` + config.FileName + ` with the default settings to the project root.
When the file already exists, settings it lacks are added and everything
else, including comments, is left as is.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			root, err := absDir(rootArg(args))
			if err != nil {
				return err
			}
			path := a.configPath
			if path == "" {
				path = filepath.Join(root, config.FileName)
			}

			existing, err := os.ReadFile(path)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			updated, added, err := mergeDefaults(existing, config.Default())
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if dryRun {
				_, err := a.stdout.Write(updated)
				return err
			}
			if len(existing) > 0 && len(added) == 0 {
				_, _ = fmt.Fprintf(a.stderr, "%s is up to date\n", path)
				return nil
			}
			if err := os.WriteFile(path, updated, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			_, _ = fmt.Fprintf(a.stderr, "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

// mergeDefaults adds the top-level keys of def that content lacks and
// returns the new document with the names of the added keys. Empty content
// yields the full default document. It is a pure function for easy testing.
func mergeDefaults(content []byte, def *config.Config) ([]byte, []string, error) {
	var defaults yaml.Node
	if err := defaults.Encode(def); err != nil {
		return nil, nil, fmt.Errorf("encoding defaults: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	var out *yaml.Node
	var added []string
	if len(doc.Content) == 0 {
		out = &defaults
		if len(defaults.Content) > 0 {
			defaults.Content[0].HeadComment = configHeader
		}
		for i := 0; i < len(defaults.Content); i += 2 {
			added = append(added, defaults.Content[i].Value)
		}
	} else {
		out = &doc
		mapping := doc.Content[0]
		if mapping.Kind != yaml.MappingNode {
			return nil, nil, errors.New("config is not a mapping")
		}
		present := make(map[string]struct{}, len(mapping.Content)/2)
		for i := 0; i < len(mapping.Content); i += 2 {
			present[mapping.Content[i].Value] = struct{}{}
		}
		for i := 0; i+1 < len(defaults.Content); i += 2 {
			key := defaults.Content[i]
			if _, ok := present[key.Value]; ok {
				continue
			}
			mapping.Content = append(mapping.Content, key, defaults.Content[i+1])
			added = append(added, key.Value)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), added, nil
}
