package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ubuntu-spins/spindex/internal"
	"github.com/ubuntu-spins/spindex/internal/logging"
	"github.com/ubuntu-spins/spindex/internal/spinconf"
)

var cfgFile string

const (
	LogLevelKey   = "log.level"
	LogFormatKey  = "log.format"
	LogNoColorKey = "log.no_color"

	VersionsDirKey = "versions.dir"
	SpinsFileKey   = "spins.file"
	OutputDirKey   = "output.dir"
)

var rootCmd = &cobra.Command{
	Use:   "spindex",
	Short: "Aggregates Ubuntu spin release metadata into a boot-menu catalog",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, configErr := initConfig()
		logging.Init()
		if configErr != nil { // handle error after logging is initialized
			return configErr
		}
		if configPath != "" {
			log.Info().Msgf("using config file: %s", configPath)
		}
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Error().Err(err).Msg("command execution failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.spindex.yaml)")

	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	_ = viper.BindPFlag(LogLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", "console", "log format: console, json")
	_ = viper.BindPFlag(LogFormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "disable color output")
	_ = viper.BindPFlag(LogNoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.PersistentFlags().String("versions-dir", internal.DefaultVersionsDir,
		"directory holding per-release version descriptors")
	_ = viper.BindPFlag(VersionsDirKey, rootCmd.PersistentFlags().Lookup("versions-dir"))

	rootCmd.PersistentFlags().String("spins-file", internal.DefaultSpinsFile,
		"spin-definition table")
	_ = viper.BindPFlag(SpinsFileKey, rootCmd.PersistentFlags().Lookup("spins-file"))

	rootCmd.PersistentFlags().String("output-dir", internal.DefaultOutputDir,
		"directory for generated catalog documents")
	_ = viper.BindPFlag(OutputDirKey, rootCmd.PersistentFlags().Lookup("output-dir"))

	viper.SetEnvPrefix("SPINDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

func initConfig() (string, error) {
	// reads in config file and ENV variables if set.
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// search order: current dir, $HOME, XDG config
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}

		config, err := os.UserConfigDir()
		if err == nil {
			viper.AddConfigPath(config + "/spindex")
		}

		viper.SetConfigType("yaml")
		viper.SetConfigName(".spindex")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundError) {
			return "", err
		}
	} else {
		return viper.ConfigFileUsed(), nil
	}

	return "", nil
}

// loadSpinConfig loads the shared spin-definition and codename tables.
func loadSpinConfig() (*spinconf.Config, error) {
	return spinconf.Load(viper.GetString(SpinsFileKey))
}
