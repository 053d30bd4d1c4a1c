package cli

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/mvp-joe/ccconv/internal/compiledb"
	"github.com/mvp-joe/ccconv/internal/convert"
	"github.com/spf13/cobra"
)

// dumpCmd prints the parsed and grouped database without writing outputs.
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the grouped compile commands as JSON",
	Long: `Dump loads compile_commands.json, applies the configured filters and prints
the commands grouped by language, together with parse statistics. Nothing is
written to the output directory.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

// dumpOutput is the JSON document printed by dump.
type dumpOutput struct {
	Stats     *convert.Stats          `json:"stats"`
	Languages compiledb.LanguageGroup `json:"languages"`
}

func runDump(cmd *cobra.Command, args []string) error {
	opts := currentOptions()
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose, opts.Quiet)
	return executeDump(opts, logger, cmd.OutOrStdout())
}

func executeDump(opts runOptions, logger *slog.Logger, out io.Writer) error {
	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return err
	}

	converter, err := convert.New(cfg, logger, nil)
	if err != nil {
		return err
	}

	group, stats, err := converter.Model(opts.Directory)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(dumpOutput{Stats: stats, Languages: group})
}
