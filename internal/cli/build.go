package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dgmlkit/pkg/analysis"
	"github.com/matzehuels/dgmlkit/pkg/builder"
	"github.com/matzehuels/dgmlkit/pkg/cache"
	"github.com/matzehuels/dgmlkit/pkg/dataset"
	"github.com/matzehuels/dgmlkit/pkg/dgml"
)

const (
	formatDGML = "dgml"
	formatJSON = "json"

	// buildCacheTTL bounds how long a cached document stays valid locally.
	buildCacheTTL = 7 * 24 * time.Hour
)

// buildOptions collects the build command's flag values.
type buildOptions struct {
	output      string
	format      string
	analysesStr string
	title       string
	configPath  string
	noCache     bool
	refresh     bool
}

// buildCommand creates the build command turning a dataset into a document.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build [dataset.json|dataset.yaml]",
		Short: "Build a DGML document from a dataset",
		Long: `Build a DGML document from a JSON or YAML dataset.

A dataset is a flat list of objects. Objects with an "id" become nodes,
objects with a "link" map become links, and objects with a "category" map
declare categories. Extra scalar fields on node objects become custom
properties.

Analyses run after assembly and annotate the document, e.g.:

  dgmlkit build services.yaml --analysis hubs,orphans

When no dataset is given, an interactive picker lists dataset files in the
current directory. Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			} else {
				picked, err := pickDatasetFile(".")
				if err != nil {
					return err
				}
				if picked == "" {
					printInfo("No dataset selected")
					return nil
				}
				input = picked
			}
			return c.runBuild(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: dataset name with new extension, \"-\" for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatDGML, "output format: dgml, json")
	cmd.Flags().StringVarP(&opts.analysesStr, "analysis", "a", "", "analyses to run (comma-separated, see 'dgmlkit build --help')")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file path")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even if a cached result exists")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input string, opts buildOptions) error {
	if opts.format != formatDGML && opts.format != formatJSON {
		return fmt.Errorf("unsupported format %q (want dgml or json)", opts.format)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	names := parseAnalyses(opts.analysesStr)
	if len(names) == 0 {
		names = cfg.Analyses
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read dataset %s: %w", input, err)
	}

	docCache, err := newCache(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer docCache.Close()

	key := cache.DocumentKey(cache.Hash(append(raw, opts.title...)), names, opts.format)
	if !opts.refresh {
		if body, found, err := docCache.Get(ctx, key); err == nil && found {
			return c.writeResult(input, opts, body, true)
		}
	}

	objects, err := dataset.Load(bytes.NewReader(raw), dataset.DetectFormat(input))
	if err != nil {
		return err
	}
	analyses, err := analysis.ByName(names...)
	if err != nil {
		return err
	}

	track := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Building document...")
	spinner.Start()

	g, err := builder.New(dataset.Rules(),
		builder.WithAnalyses(analyses...),
		builder.WithLogger(c.Logger),
	).Build(objects)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	g.Title = opts.title
	spinner.Stop()
	track.done(fmt.Sprintf("Built %d nodes, %d links", g.NodeCount(), g.LinkCount()))

	body, err := encodeDocument(g, opts.format)
	if err != nil {
		return err
	}
	if err := docCache.Set(ctx, key, body, buildCacheTTL); err != nil {
		c.Logger.Warnf("cache store failed: %v", err)
	}

	return c.writeResult(input, opts, body, false)
}

// writeResult writes the document to the chosen destination and prints the
// result summary.
func (c *CLI) writeResult(input string, opts buildOptions, body []byte, cached bool) error {
	if opts.output == "-" {
		_, err := os.Stdout.Write(body)
		return err
	}

	out := opts.output
	if out == "" {
		ext := "." + opts.format
		out = strings.TrimSuffix(input, filepath.Ext(input)) + ext
		if out == input {
			// A .json dataset built as json would overwrite itself.
			out = input + ext
		}
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	nodes, links := countElements(body, opts.format)
	printSuccess("Document written")
	printFile(out)
	printStats(nodes, links, cached)
	return nil
}

func encodeDocument(g *dgml.Graph, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		return json.MarshalIndent(g.Document(), "", "  ")
	default:
		return dgml.MarshalDGML(g)
	}
}

// countElements extracts node and link counts from an encoded document for
// the stats line. Failures just suppress the counts.
func countElements(body []byte, format string) (int, int) {
	switch format {
	case formatJSON:
		var doc dgml.Document
		if err := json.Unmarshal(body, &doc); err != nil {
			return 0, 0
		}
		return len(doc.Nodes), len(doc.Links)
	default:
		g, err := dgml.ReadDGML(bytes.NewReader(body))
		if err != nil {
			return 0, 0
		}
		return g.NodeCount(), g.LinkCount()
	}
}
