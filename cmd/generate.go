package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ubuntu-spins/spindex/internal/catalog"
	"github.com/ubuntu-spins/spindex/internal/store"
)

var generateFlags = struct {
	skipEmpty bool
}{}

// generateCmd builds the catalog documents from the version store.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates the products:1.0 catalog documents",
	Long: `The generate command reads every version descriptor in the store, filters
out entries without a resolved checksum and size, and writes one JSON
document per spin to the output directory.

The output is deterministic for a given store state. Duplicate product
keys across descriptors indicate a broken store and fail the run after
all documents are written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		versionsDir := viper.GetString(VersionsDirKey)
		outputDir := viper.GetString(OutputDirKey)

		cfg, err := loadSpinConfig()
		if err != nil {
			return fmt.Errorf("loading spin config: %w", err)
		}

		descriptors, loadErrs, err := store.LoadAll(versionsDir)
		if err != nil {
			return err
		}

		builder := catalog.NewBuilder(cfg)
		docs, report := builder.Build(descriptors)

		written, err := catalog.WriteDocuments(outputDir, docs, generateFlags.skipEmpty)
		if err != nil {
			return fmt.Errorf("writing documents: %w", err)
		}

		log.Info().
			Int("documents", written).
			Int("products", report.Products).
			Int("skipped_incomplete", report.SkippedIncomplete).
			Int("malformed_descriptors", len(loadErrs)).
			Msg("catalog generated")

		// duplicate keys are a configuration error; report them all,
		// then fail the run
		var combined error
		for _, collision := range report.Collisions {
			combined = errors.Join(combined, collision)
		}
		return combined
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&generateFlags.skipEmpty, "skip-empty", false,
		"do not write documents with zero products")
}
