package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/schoolboyqueue/docgate/internal/config"
	"github.com/schoolboyqueue/docgate/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [category]",
	Short: "Print the flattened contract for a category",
	Long: `Print the flattened contract for a category.

The printed contract is the fully-resolved form after inheritance: the
union of required fields and the effective rule set, ancestors first.
Without a category argument, the known category names are listed.`,
	Example: `  docgate schema plan
  docgate schema`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		catalog, err := buildCatalog(configPath)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return NewExitError(ExitInvalidArguments)
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range catalog.Names() {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		flat, err := catalog.Flatten(args[0])
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return NewExitError(ExitInvalidArguments)
		}
		printFlattened(out, flat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func buildCatalog(configPath string) (*schema.Catalog, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	fragments, err := config.LoadFragments(cfg.SchemaDir)
	if err != nil {
		return nil, err
	}
	return schema.Build(fragments)
}

func printFlattened(out io.Writer, flat *schema.Flattened) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintln(out, bold(flat.Name))
	if len(flat.Required) > 0 {
		fmt.Fprintf(out, "  required: %s\n", strings.Join(flat.Required, ", "))
	}
	for _, rule := range flat.Rules {
		fmt.Fprintf(out, "  %s %s%s\n", rule.Field, rule.Kind, dim(ruleDetail(rule)))
	}
	for _, check := range flat.BodyChecks {
		fmt.Fprintf(out, "  body %s%s\n", check.Name, dim(" must contain "+check.MustContain))
	}
}

func ruleDetail(rule schema.FieldRule) string {
	switch rule.Kind {
	case schema.RuleEnum:
		return " [" + strings.Join(rule.Enum, ", ") + "]"
	case schema.RulePattern:
		return " " + rule.Pattern
	case schema.RuleLength:
		return fmt.Sprintf(" %d..%d", rule.Min, rule.Max)
	default:
		return ""
	}
}
