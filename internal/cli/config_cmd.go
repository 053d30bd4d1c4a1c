package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mvp-joe/ccconv/internal/config"
	"github.com/spf13/cobra"
)

var forceInit bool

// configCmd groups the configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ccconv configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Write the built-in defaults to the user configuration file
($HOME/.config/ccconv/ccconv.yml), or to the path given with --config.
An existing file is kept unless --force is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configInitPath(currentOptions())
		if err != nil {
			return err
		}
		return executeConfigInit(path, forceInit, cmd.OutOrStdout())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := currentOptions()
		logger := newLogger(cmd.ErrOrStderr(), opts.Verbose, opts.Quiet)
		return executeConfigShow(opts, logger, cmd.OutOrStdout())
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// configInitPath returns the file config init writes.
func configInitPath(opts runOptions) (string, error) {
	if opts.ConfigFile != "" {
		return opts.ConfigFile, nil
	}

	home := opts.HomeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
	}
	return config.UserConfigPath(home), nil
}

func executeConfigInit(path string, force bool, out io.Writer) error {
	if err := config.WriteDefault(path, force); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Wrote default config to %s\n", path)
	return nil
}

func executeConfigShow(opts runOptions, logger *slog.Logger, out io.Writer) error {
	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	if cfg.Source != "" {
		fmt.Fprintf(out, "# source: %s\n", cfg.Source)
	} else {
		fmt.Fprintln(out, "# source: built-in defaults")
	}
	_, err = out.Write(data)
	return err
}
