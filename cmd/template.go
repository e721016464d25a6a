package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ubuntu-spins/spindex/internal/store"
)

var templateFlags = struct {
	force bool
}{}

// templateCmd seeds a new version descriptor with every configured spin
// and unresolved checksum sentinels.
var templateCmd = &cobra.Command{
	Use:   "template <version>",
	Short: "Creates a version descriptor for a new release",
	Example: `
# prepare a descriptor for a new point release, then resolve it
spindex template 24.04.3
spindex fetch --version 24.04.3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version := args[0]
		versionsDir := viper.GetString(VersionsDirKey)

		cfg, err := loadSpinConfig()
		if err != nil {
			return fmt.Errorf("loading spin config: %w", err)
		}

		path := store.Path(versionsDir, version)
		if _, err := os.Stat(path); err == nil && !templateFlags.force {
			return fmt.Errorf("descriptor %q already exists (use --force to overwrite)", path)
		}

		d, err := store.NewDescriptor(cfg, version)
		if err != nil {
			return fmt.Errorf("building descriptor: %w", err)
		}

		if err := os.MkdirAll(versionsDir, 0o755); err != nil {
			return fmt.Errorf("create versions directory: %w", err)
		}
		if err := store.Save(path, d); err != nil {
			return err
		}

		log.Info().
			Str("path", path).
			Int("spins", len(d.SpinGroups)).
			Msg("created version descriptor")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().BoolVarP(&templateFlags.force, "force", "f", false,
		"overwrite an existing descriptor")
}
