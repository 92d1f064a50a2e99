package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/schoolboyqueue/docgate/internal/config"
	"github.com/schoolboyqueue/docgate/internal/engine"
	"github.com/schoolboyqueue/docgate/internal/health"
	"github.com/schoolboyqueue/docgate/internal/report"
	"github.com/schoolboyqueue/docgate/internal/schema"
)

var checkProgressFlag bool

var checkCmd = &cobra.Command{
	Use:   "check <root>",
	Short: "Validate every artifact under a directory",
	Long: `Validate every artifact under a directory.

Files matching the configured include globs are read, classified by path,
validated against their category's flattened schema, and cross-checked
against sibling artifacts per the configured reference contracts.

Exit Codes:
  0 - Gate passed (no Critical findings anywhere)
  1 - Gate failed (at least one artifact has a Critical finding)
  3 - Invalid arguments or broken configuration`,
	Example: `  docgate check ./docs
  docgate check --config ci/docgate.json ./docs
  docgate check --progress ./docs`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		return runCheck(args[0], configPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkProgressFlag, "progress", false, "Show a progress spinner during validation")
}

func runCheck(root, configPath string, out, errOut io.Writer) error {
	eng, cfg, err := buildEngine(configPath)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	artifacts, err := collectArtifacts(root, cfg.Include)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	stop := startSpinner(fmt.Sprintf("validating %d artifact(s)", len(artifacts)))
	results, err := eng.ValidateAll(context.Background(), artifacts)
	stop()
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	summary := report.Write(out, results)
	if summary.Artifacts > 0 && summary.MinScore < cfg.ScoreThreshold {
		fmt.Fprintf(out, "note: lowest score %d is below the configured threshold %d\n",
			summary.MinScore, cfg.ScoreThreshold)
	}
	if !summary.Gate() {
		return NewExitError(ExitGateFailed)
	}
	return nil
}

// buildEngine assembles the engine from on-disk configuration: the config
// file, the schema fragment directory, and the compiled rules/contracts.
func buildEngine(configPath string) (*engine.Engine, *config.Configuration, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	fragments, err := config.LoadFragments(cfg.SchemaDir)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := schema.Build(fragments)
	if err != nil {
		return nil, nil, err
	}

	rules, err := config.CompileRules(cfg.Rules)
	if err != nil {
		return nil, nil, err
	}
	contracts, err := config.CompileContracts(cfg.Contracts)
	if err != nil {
		return nil, nil, err
	}

	opts := []engine.Option{
		engine.WithMaxParallel(cfg.MaxParallel),
		engine.WithAllowMissingTargets(cfg.AllowMissingTargets),
	}
	if cfg.WeightedScoring {
		opts = append(opts, engine.WithWeights(health.DefaultWeights()))
	}

	eng, err := engine.New(catalog, rules, contracts, opts...)
	if err != nil {
		return nil, nil, err
	}
	return eng, cfg, nil
}

// startSpinner shows a progress spinner when enabled and attached to a
// terminal. The returned func stops it; it is a no-op otherwise.
func startSpinner(message string) func() {
	if !checkProgressFlag || !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	return s.Stop
}
