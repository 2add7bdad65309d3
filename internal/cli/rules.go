package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kmacleod/gavel/internal/config"
	"github.com/kmacleod/gavel/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate rule packs",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the rules in the effective catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		catalog, err := loadCatalog(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		for _, r := range catalog.Rules() {
			fmt.Fprintf(os.Stdout, "%-28s %-12s %-8s %s\n", r.ID, r.Category, r.Severity, r.Summary)
		}
		return nil
	},
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check <pack>...",
	Short: "Validate rule packs without running a review",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := rules.LoadCatalog(args...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		fmt.Fprintf(os.Stdout, "OK: %d rule(s) across %d pack(s)\n", catalog.Len(), len(args))
		return nil
	},
}

var rulesImportCmd = &cobra.Command{
	Use:   "import <rulebook.md>",
	Short: "Extract rule definitions from a markdown rulebook as a YAML pack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		ruleDefs, err := rules.ExtractMarkdownRules(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		// Validate before emitting so a broken rulebook fails loudly.
		if _, err := rules.NewCatalog(ruleDefs); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		out, err := yaml.Marshal(rules.Pack{Name: args[0], Rules: ruleDefs})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		os.Stdout.Write(out)
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
	rulesCmd.AddCommand(rulesImportCmd)

	rulesListCmd.Flags().StringVar(&flagRulePacks, "rules", "", "Rule pack paths (comma-separated)")
}
