package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mvp-joe/ccconv/internal/compiledb"
	"github.com/mvp-joe/ccconv/internal/config"
	"github.com/mvp-joe/ccconv/internal/convert"
	"github.com/mvp-joe/ccconv/internal/watcher"
	"github.com/spf13/cobra"
)

var watchMode bool

// runOptions is the flag state shared by the commands.
type runOptions struct {
	Directory  string
	OutDir     string
	ConfigFile string
	HomeDir    string // Empty means the user's home directory
	Verbose    bool
	Quiet      bool
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := currentOptions()
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose, opts.Quiet)

	if !watchMode {
		_, err := executeGenerate(opts, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return executeWatch(ctx, opts, logger, cmd.OutOrStdout(), cmd.ErrOrStderr(), watcher.DefaultDebounce)
}

// executeGenerate runs one conversion with freshly loaded configuration.
func executeGenerate(opts runOptions, logger *slog.Logger, stdout, stderr io.Writer) (*convert.Result, error) {
	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return nil, err
	}

	converter, err := convert.New(cfg, logger, NewCLIProgressReporter(stdout, stderr, opts.Quiet))
	if err != nil {
		return nil, err
	}

	return converter.Run(opts.Directory)
}

// executeWatch converts once, then again after every change to the database
// or a config candidate, until ctx is cancelled. Conversion errors are logged.
func executeWatch(ctx context.Context, opts runOptions, logger *slog.Logger, stdout, stderr io.Writer, debounce time.Duration) error {
	if _, err := executeGenerate(opts, logger, stdout, stderr); err != nil {
		logger.Error("conversion failed", "error", err)
	}

	files, err := watchedFiles(opts, logger)
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(files, debounce, logger)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	err = fw.Start(ctx, func(changed []string) {
		logger.Info("change detected, regenerating", "files", changed)
		if _, err := executeGenerate(opts, logger, stdout, stderr); err != nil {
			logger.Error("conversion failed", "error", err)
		}
	})
	if err != nil {
		fw.Stop()
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	logger.Info("watching for changes", "files", files)
	<-ctx.Done()
	logger.Info("stopping watcher")

	return fw.Stop()
}

// watchedFiles lists the database and every config candidate whose directory exists.
func watchedFiles(opts runOptions, logger *slog.Logger) ([]string, error) {
	files := []string{compiledb.DatabasePath(opts.Directory)}

	candidates, err := config.NewLoader(loaderOptions(opts)).Candidates()
	if err != nil {
		return nil, err
	}
	for _, path := range candidates {
		if _, err := os.Stat(filepath.Dir(path)); errors.Is(err, fs.ErrNotExist) {
			logger.Debug("not watching config candidate, directory missing", "path", path)
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// loadConfig bootstraps the user config file when no explicit one is given,
// then loads and validates the effective configuration.
func loadConfig(opts runOptions, logger *slog.Logger) (*config.Config, error) {
	if opts.ConfigFile == "" {
		path, created, err := config.EnsureUserConfig(opts.HomeDir)
		switch {
		case err != nil:
			logger.Warn("failed to create default config", "error", err)
		case created:
			logger.Info("created default config", "path", path)
		}
	}

	cfg, err := config.NewLoader(loaderOptions(opts)).Load()
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		logger.Debug("using config file", "path", cfg.Source)
	}

	cfg.OutputDir = opts.OutDir
	cfg.Verbose = opts.Verbose
	cfg.Quiet = opts.Quiet
	return cfg, nil
}

func loaderOptions(opts runOptions) config.LoaderOptions {
	return config.LoaderOptions{
		ConfigFile: opts.ConfigFile,
		ProjectDir: opts.Directory,
		HomeDir:    opts.HomeDir,
	}
}
