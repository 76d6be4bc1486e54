package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dgmlkit/pkg/dgml"
)

// inspectCommand creates the inspect command summarizing a DGML file.
func (c *CLI) inspectCommand() *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "inspect <document.dgml>",
		Short: "Summarize a DGML document",
		Long: `Summarize a DGML document: element counts, declared categories and
custom properties, and optionally a dangling-link check.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0], validate)
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "report links whose endpoints have no node")

	return cmd
}

func (c *CLI) runInspect(input string, validate bool) error {
	g, err := dgml.ReadDGMLFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	if g.Title != "" {
		printKeyValue("Title", g.Title)
	}
	printKeyValue("Nodes", fmt.Sprintf("%d", g.NodeCount()))
	printKeyValue("Links", fmt.Sprintf("%d", g.LinkCount()))
	printKeyValue("Styles", fmt.Sprintf("%d", len(g.Styles())))

	if cats := g.Categories(); len(cats) > 0 {
		ids := make([]string, len(cats))
		for i, cat := range cats {
			ids[i] = cat.ID
		}
		sort.Strings(ids)
		printKeyValue("Categories", strings.Join(ids, ", "))
	}

	if props := g.Properties(); len(props) > 0 {
		ids := make([]string, len(props))
		for i, p := range props {
			ids[i] = p.ID
		}
		sort.Strings(ids)
		printKeyValue("Properties", strings.Join(ids, ", "))
	}

	if validate {
		if err := g.Validate(); err != nil {
			printWarning("%v", err)
			return nil
		}
		printSuccess("No dangling links")
	}
	return nil
}
