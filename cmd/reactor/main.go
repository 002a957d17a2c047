// Command reactor is the thin CLI entrypoint: it wires a session.Session
// and the default descriptor/resolver/locator collaborators into a
// reactor.Builder and prints the resulting project graph. Grounded on
// the teacher's cli package overall shape (a urfave/cli.App with a flat
// set of top-level flags, logrus configured before anything else runs) -
// no retrieved teacher source directly exercises urfave/cli/v2 itself
// (see DESIGN.md), so the App/Flags/Action wiring below follows the
// library's own documented idiom instead of a specific teacher file.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/buildgraph/reactor/descriptor"
	"github.com/buildgraph/reactor/diag"
	"github.com/buildgraph/reactor/reactor"
	"github.com/buildgraph/reactor/session"
	"github.com/buildgraph/reactor/workspace"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.WithError(err).Error("reactor failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "reactor",
		Usage: "compute a project's reactor build graph",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pom", Value: "project.hcl", Usage: "path to the root project descriptor"},
			&cli.StringFlag{Name: "base-dir", Usage: "directory project selectors resolve against (defaults to the pom's directory)"},
			&cli.StringSliceFlag{Name: "projects", Usage: "project selector (repeatable): group:artifact, :artifact, or a path"},
			&cli.StringFlag{Name: "make", Usage: "build-behavior mode: all, selected-only, upstream, downstream"},
			&cli.StringSliceFlag{Name: "active-profiles", Usage: "explicit profile ids to activate"},
			&cli.StringSliceFlag{Name: "inactive-profiles", Usage: "explicit profile ids to deactivate"},
			&cli.StringFlag{Name: "validation-level", Value: "minimal", Usage: "minimal, v2, or strict"},
			&cli.StringFlag{Name: "external-dir", Usage: "directory of vendored external descriptors (defaults to base-dir)"},
			&cli.StringFlag{Name: "binary-pom", Usage: "path to a root descriptor whose coordinates are treated as prebuilt binary variants"},
			&cli.BoolFlag{Name: "dot", Usage: "print the graph as Graphviz dot instead of a flat list"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	log := logrus.New()
	if c.Bool("debug") {
		log.SetLevel(logrus.DebugLevel)
	}
	entry := logrus.NewEntry(log)

	pomFile := c.String("pom")
	baseDir := c.String("base-dir")
	if baseDir == "" {
		baseDir = filepath.Dir(pomFile)
	}
	level := validationLevel(c.String("validation-level"))

	parser := descriptor.HCLParser{}
	locator := descriptor.FileLocator{}

	sourceIdx, err := loadIndex(c, entry, pomFile, parser, locator, level)
	if err != nil {
		return err
	}

	binaryIdx := workspace.Empty()
	if binPom := c.String("binary-pom"); binPom != "" {
		binaryIdx, err = loadIndex(c, entry, binPom, parser, locator, level)
		if err != nil {
			return err
		}
	}

	sess := session.New(pomFile, baseDir).
		WithSelectedProjects(c.StringSlice("projects")...).
		WithActiveProfiles(c.StringSlice("active-profiles")...).
		WithInactiveProfiles(c.StringSlice("inactive-profiles")...).
		WithValidationLevel(level)
	if m := c.String("make"); m != "" {
		sess = sess.WithMakeBehavior(parseMakeBehavior(m))
	}

	externalDir := c.String("external-dir")
	if externalDir == "" {
		externalDir = baseDir
	}
	resolver := descriptor.NewFilesystemResolver(externalDir, parser)

	b, newResult := reactor.New(sess, reactor.Config{
		SourceIndex: sourceIdx,
		BinaryIndex: binaryIdx,
		Pipeline:    descriptor.DefaultPipeline(),
		Resolver:    resolver,
		SuperModel:  descriptor.DefaultSuperModel{},
		Log:         entry,
	})
	if newResult.IsError() {
		return diagnosticsErr(entry, newResult.Diagnostics())
	}

	result := b.Build(c.Context)
	for _, d := range result.Diagnostics() {
		entry.Warn(d.Error())
	}
	if result.IsError() {
		return diagnosticsErr(entry, result.Diagnostics())
	}

	graph := result.Value()
	if c.Bool("dot") {
		return graph.WriteDot(os.Stdout)
	}
	for _, n := range graph.SortedProjects() {
		fmt.Fprintf(os.Stdout, "%s\t%s\n", n.Coordinate, n.Variant)
	}
	return nil
}

func loadIndex(c *cli.Context, log *logrus.Entry, pomFile string, parser descriptor.Parser, locator descriptor.Locator, level descriptor.ValidationLevel) (workspace.Index, error) {
	raws := descriptor.Load(c.Context, pomFile, parser, locator, level)
	if raws.IsError() {
		return workspace.Empty(), diagnosticsErr(log, raws.Diagnostics())
	}
	idx := workspace.NewIndex(raws.Value())
	if idx.IsError() {
		return workspace.Empty(), diagnosticsErr(log, idx.Diagnostics())
	}
	return idx.Value(), nil
}

// diagnosticsErr folds every Error/Fatal diagnostic into one *multierror.Error
// so the process exit reports each failing coordinate on its own line,
// the same aggregation shape configstack's tests assert against.
func diagnosticsErr(log *logrus.Entry, ds []diag.Diagnostic) error {
	var merr *multierror.Error
	for _, d := range ds {
		log.Error(d.Error())
		if d.Severity >= diag.Error {
			merr = multierror.Append(merr, d)
		}
	}
	return merr.ErrorOrNil()
}

func parseMakeBehavior(m string) session.MakeBehavior {
	switch m {
	case "selected-only":
		return session.MakeSelectedOnly
	case "upstream":
		return session.MakeUpstream
	case "downstream":
		return session.MakeDownstream
	case "both":
		return session.MakeBoth
	default:
		return session.MakeAll
	}
}

func validationLevel(s string) descriptor.ValidationLevel {
	switch s {
	case "v2":
		return descriptor.ValidationV2
	case "strict":
		return descriptor.ValidationStrict
	default:
		return descriptor.ValidationMinimal
	}
}
