package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ubuntu-spins/spindex/internal/catalog"
)

// validateCmd checks generated documents against the external schema.
var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validates generated catalog documents",
	Long: `The validate command checks every JSON document in the output directory
against the schema the external boot-menu tool expects: required fields,
the fixed datatype and format literals, and the iso item structure.

Empty checksums and zero sizes are warnings, not errors; they are normal
for freshly templated versions that have not been resolved yet.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString(OutputDirKey)
		if len(args) == 1 {
			dir = args[0]
		}

		reports, err := catalog.ValidateDir(dir)
		if err != nil {
			return err
		}

		totalErrors, totalWarnings := 0, 0
		for _, report := range reports {
			if len(report.Errors) == 0 && len(report.Warnings) == 0 {
				color.Green("+ %s", report.Path)
				continue
			}
			for _, e := range report.Errors {
				color.Red("! %s: %s", report.Path, e)
			}
			for _, w := range report.Warnings {
				color.Yellow("~ %s: %s", report.Path, w)
			}
			totalErrors += len(report.Errors)
			totalWarnings += len(report.Warnings)
		}

		log.Info().
			Int("files", len(reports)).
			Int("errors", totalErrors).
			Int("warnings", totalWarnings).
			Msg("validation finished")

		if totalErrors > 0 {
			return fmt.Errorf("validation failed with %d errors", totalErrors)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
