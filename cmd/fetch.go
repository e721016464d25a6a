package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ubuntu-spins/spindex/internal/resolver"
	"github.com/ubuntu-spins/spindex/internal/store"
)

var fetchFlags = struct {
	version string
	dryRun  bool
}{}

// fetchCmd resolves checksum and size fields from the upstream
// SHA256SUMS manifests and writes them back into the version store.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetches upstream checksums into the version store",
	Long: `The fetch command downloads the SHA256SUMS manifest for every spin in the
selected version descriptors and fills in unresolved checksum and size
fields in place. Much faster than downloading whole images.

Individual spins that fail to resolve (withdrawn releases, network
errors, files missing from the manifest) are reported and skipped; the
run only fails when the store itself cannot be read or written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		versionsDir := viper.GetString(VersionsDirKey)

		cfg, err := loadSpinConfig()
		if err != nil {
			return fmt.Errorf("loading spin config: %w", err)
		}

		paths, err := selectDescriptorPaths(versionsDir, fetchFlags.version)
		if err != nil {
			return err
		}

		res := resolver.New(cfg, resolver.NewClient())

		var reports []*resolver.Report
		for _, path := range paths {
			d, err := store.Load(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("skipping malformed descriptor")
				continue
			}

			report := res.ResolveDescriptor(ctx, d)
			reports = append(reports, report)

			if !report.Changed() {
				continue
			}
			if fetchFlags.dryRun {
				log.Info().
					Str("version", d.Version).
					Int("updates", report.Count(resolver.Updated)).
					Msg("dry run, not persisting")
				continue
			}
			if err := store.Save(path, d); err != nil {
				return fmt.Errorf("persisting descriptor: %w", err)
			}
		}

		printFetchSummary(reports)
		return nil
	},
}

// selectDescriptorPaths picks one descriptor by version, or every
// descriptor in the store.
func selectDescriptorPaths(versionsDir, version string) ([]string, error) {
	if version != "" {
		path := store.Path(versionsDir, version)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("version %q not in store: %w", version, err)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return nil, fmt.Errorf("read store directory %q: %w", versionsDir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !store.IsDescriptorName(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(versionsDir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no descriptors found in %q", versionsDir)
	}
	sort.Strings(paths)
	return paths, nil
}

func printFetchSummary(reports []*resolver.Report) {
	for _, report := range reports {
		for _, entry := range report.Entries {
			label := entry.Filename
			if label == "" {
				label = entry.Spin + "/" + entry.Arch
			}
			switch entry.Outcome {
			case resolver.Updated:
				color.Green("+ %s %s", report.Version, label)
			case resolver.UpToDate:
				// nothing to report
			case resolver.Missing:
				color.Yellow("? %s %s (not in manifest)", report.Version, label)
			case resolver.Failed:
				color.Red("! %s %s (%v)", report.Version, label, entry.Err)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchFlags.version, "version", "",
		"resolve a single version instead of the whole store")
	fetchCmd.Flags().BoolVarP(&fetchFlags.dryRun, "dry-run", "n", false,
		"fetch and report, but do not write the store")
}
