package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thinkglobalschool/spot-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

// updateChecker is replaced in tests.
var updateChecker = update.Checker{}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			result := updateChecker.Check(cmd.Context(), version)

			if isJSON(cmd) {
				out := map[string]any{"version": version}
				if result != nil {
					out["update"] = result
				}
				return printJSON(cmd, out)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "spot-cli version %s\n", version)
			if result != nil && result.UpdateAvailable {
				errOut := cmd.ErrOrStderr()
				_, _ = fmt.Fprintf(errOut, "\nUpdate available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
				_, _ = fmt.Fprintf(errOut, "Download: %s\n", result.UpdateURL)
			}
			return nil
		}),
	}
}
