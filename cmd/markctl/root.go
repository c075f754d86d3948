package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mind-engage/examprep/internal/config"
	"github.com/mind-engage/examprep/internal/questions"
)

// Set by the release build.
var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:           "markctl",
	Short:         "Inspect question types and run essay evaluations from the terminal.",
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		if !viper.GetBool("color") {
			color.NoColor = true
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default .markctl.yaml in . or $HOME)")
	rootCmd.PersistentFlags().String("question-types", "", "YAML question-type table (default: built-in)")
	rootCmd.PersistentFlags().String("marking-url", "http://localhost:8000", "Marking service base URL")
	rootCmd.PersistentFlags().String("api-key", "", "Marking service API key")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Marking request timeout (0 = none)")
	rootCmd.PersistentFlags().Bool("color", true, "Colorize output")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(typesCmd, evaluateCmd, usersCmd, versionCmd)
}

// initConfig merges .env, config file, MARKCTL_* env and flags.
func initConfig() error {
	if err := config.LoadDotEnv(""); err != nil {
		return err
	}
	if f := viper.GetString("config"); f != "" {
		viper.SetConfigFile(f)
	} else {
		viper.SetConfigName(".markctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}
	viper.SetEnvPrefix("MARKCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func loadRegistry() (*questions.Registry, error) {
	return questions.Load(viper.GetString("question-types"))
}
