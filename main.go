// stimref resolves Stimulus controller conventions between markup and
// controller scripts.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/stimref/internal/analyze"
	"github.com/phobologic/stimref/internal/config"
	"github.com/phobologic/stimref/internal/jsast"
	"github.com/phobologic/stimref/internal/logging"
	"github.com/phobologic/stimref/internal/project"
	"github.com/phobologic/stimref/internal/toon"
)

var version = "dev"

// errProblems is returned by check when it found anything to report. The
// findings are already printed, so main only sets the exit status.
var errProblems = errors.New("problems found")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errProblems) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(&app{stdout: stdout, stderr: stderr})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

// app carries global flags and output streams into the subcommands.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	logLevel   string
	format     string
	configPath string
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stimref",
		Short: "Resolve Stimulus controller conventions",
		Long: `stimref links Stimulus markup attributes (data-controller, data-action,
data-<id>-target, ...) to the controller classes and members they name,
using the framework's file naming and property naming conventions.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			switch a.format {
			case "toon", "yaml":
				return nil
			default:
				return fmt.Errorf("unsupported format %q (want toon or yaml)", a.format)
			}
		},
	}
	cmd.SetVersionTemplate("stimref {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
	flags.StringVarP(&a.format, "format", "f", "toon", "output format: toon or yaml")
	flags.StringVar(&a.configPath, "config", "", "config file (default <root>/"+config.FileName+")")

	cmd.AddCommand(
		newIDCmd(a),
		newControllersCmd(a),
		newResolveCmd(a),
		newRefsCmd(a),
		newPropsCmd(a),
		newAttrsCmd(a),
		newCheckCmd(a),
		newUsagesCmd(a),
		newInitCmd(a),
	)
	return cmd
}

// session is one loaded project.
type session struct {
	root     string
	config   *config.Config
	logger   *slog.Logger
	project  *project.Project
	analyzer *analyze.Analyzer
}

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func absDir(root string) (string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: not a directory", root)
	}
	return root, nil
}

// open loads configuration and discovers the project at root.
func (a *app) open(root string) (*session, error) {
	root, err := absDir(root)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root, a.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	logger := logging.New(a.stderr, level)

	p, err := project.Open(root, cfg.DiscoverOptions(),
		project.WithLogger(logger),
		project.WithParser(jsast.NewParser(jsast.WithMaxFileSize(cfg.MaxFileSize))),
	)
	if err != nil {
		return nil, err
	}
	if len(p.Entries()) == 0 {
		return nil, fmt.Errorf("no script or markup files found in %s", root)
	}
	logger.Debug("project loaded", "root", root, "files", len(p.Entries()))

	return &session{
		root:     root,
		config:   cfg,
		logger:   logger,
		project:  p,
		analyzer: analyze.New(p, analyze.WithLogger(logger)),
	}, nil
}

// rel converts a command-line file argument to a project-relative path.
// Relative paths are looked up under the project root first, then under the
// working directory.
func (s *session) rel(name string) (string, error) {
	var candidates []string
	if !filepath.IsAbs(name) {
		candidates = append(candidates, filepath.Join(s.root, name))
	}
	candidates = append(candidates, name)

	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		r, err := filepath.Rel(s.root, abs)
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%s: outside project root %s", name, s.root)
		}
		return filepath.ToSlash(r), nil
	}
	return "", fmt.Errorf("%s: no such file", name)
}

// render writes doc in the selected output format.
func (a *app) render(doc *toon.Document) error {
	if a.format == "yaml" {
		out, err := toon.EncodeYAML(doc)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = a.stdout.Write(out)
		return err
	}
	_, err := fmt.Fprintln(a.stdout, toon.Encode(doc))
	return err
}
