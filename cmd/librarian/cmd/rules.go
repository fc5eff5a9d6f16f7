package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/librarian/pkg/layout"
	"github.com/OpenTraceLab/librarian/pkg/rules"
)

var rulesTech string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the design rule table of a technology",
	Long: `Show the spacing rules (in lambda) and the physical layer bindings used
when generating cells.

Examples:
  librarian rules
  librarian rules --tech scmos`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(&rulesTech, "tech", "scmos", "technology rule table")
}

func runRules(cmd *cobra.Command, args []string) error {
	tech, err := rules.Lookup(rulesTech)
	if err != nil {
		return err
	}
	r := tech.Rules
	header := color.New(color.Bold)

	header.Fprintf(os.Stdout, "Technology %s (%d lambda per micron)\n\n", tech.Name, tech.GridPerMicron)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rule\tLambda")
	fmt.Fprintf(tw, "contact size\t%d\n", r.ContactSize)
	fmt.Fprintf(tw, "contact spacing\t%d\n", r.ContactSpacing)
	fmt.Fprintf(tw, "contact to channel\t%d\n", r.ContactToChannel)
	fmt.Fprintf(tw, "contact to diffusion edge\t%d\n", r.ContactToDiffEdge)
	fmt.Fprintf(tw, "poly overlap\t%d\n", r.PolyOverlap)
	fmt.Fprintf(tw, "well clearance\t%d\n", r.WellClearance)
	fmt.Fprintf(tw, "ESD contact to silicide block\t%d\n", r.ESDContactToBlock)
	fmt.Fprintf(tw, "ESD silicide block width\t%d\n", r.ESDBlockWidth)
	fmt.Fprintf(tw, "ESD silicide block to channel\t%d\n", r.ESDBlockToChannel)
	fmt.Fprintf(tw, "ESD silicide block overhang\t%d\n", r.ESDBlockOverhang)
	fmt.Fprintf(tw, "minimum width\t%d\n", r.MinWidth())
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Println()
	tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Layer\tPhysical")
	for _, tag := range layout.AllLayerTags() {
		name, ok := tech.Layers.Name(tag)
		if !ok {
			name = "(unbound)"
		}
		fmt.Fprintf(tw, "%s\t%s\n", tag, name)
	}
	return tw.Flush()
}
