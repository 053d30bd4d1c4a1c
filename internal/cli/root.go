package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	directory string
	outDir    string
)

// rootCmd converts the compile command database when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "ccconv",
	Short: "Convert compile_commands.json into editor and IDE configuration",
	Long: `ccconv reads a compile_commands.json database and writes linter and IDE
configuration derived from it: a Vim ALE .lvimrc and an Eclipse CDT
settings XML with include paths and macros.

Only commands from allowed compilers (gcc and g++ by default) are used, and
only include directories that exist are written.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.config/ccconv/ccconv.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print warnings and errors")
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", ".", "directory containing compile_commands.json")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", ".", "output directory")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "regenerate whenever the database or config changes")
}

// currentOptions collects the global flag values.
func currentOptions() runOptions {
	return runOptions{
		Directory:  directory,
		OutDir:     outDir,
		ConfigFile: cfgFile,
		Verbose:    verbose,
		Quiet:      quiet,
	}
}
