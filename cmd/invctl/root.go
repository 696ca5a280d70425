package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "invctl",
	Short: "Declarative asset management for the inventory service",
	Long: `invctl reconciles a declarative YAML manifest of monitored assets
(hosts, devices, services) against the live state of a remote inventory
service, applying only the minimal set of changes needed.

Server, token, and container can be given as flags, via INVCTL_* environment
variables, or in ~/.config/invctl/config.yaml.`,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "Inventory server URL")
	rootCmd.PersistentFlags().String("token", "", "API bearer token")
	rootCmd.PersistentFlags().Int64("container", 0, "Target container id (default: resolved remotely)")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	viper.SetEnvPrefix("INVCTL")
	viper.AutomaticEnv()
	for _, name := range []string{"server", "token", "container", "output"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home + "/.config/invctl")
	}
	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(exportCmd)
}
