// Package convert runs the compile database conversion pipeline:
// load records, parse them, group by language, build each enabled output and
// write it to the output directory.
//
// A run is single-threaded and synchronous. Every run starts from a fresh
// existence cache, so consecutive runs in watch mode observe filesystem changes.
package convert

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mvp-joe/ccconv/internal/builder"
	"github.com/mvp-joe/ccconv/internal/compiledb"
	"github.com/mvp-joe/ccconv/internal/config"
	"github.com/mvp-joe/ccconv/internal/render"
)

// statCacheCapacity bounds the per-run include directory existence cache.
const statCacheCapacity = 10_000

// Stats counts what happened to the database records during a run.
type Stats struct {
	Records          int                        `json:"records"`
	Parsed           int                        `json:"parsed"`
	Excluded         int                        `json:"excluded"`
	Malformed        int                        `json:"malformed"`
	FilteredCompiler int                        `json:"filtered_compiler"`
	Languages        map[compiledb.Language]int `json:"languages"`
}

// Output describes one written file.
type Output struct {
	Kind builder.Kind `json:"kind"`
	Path string       `json:"path"`
}

// Result is the outcome of a successful run.
type Result struct {
	Stats   *Stats   `json:"stats"`
	Outputs []Output `json:"outputs"`
}

// Converter executes conversion runs for one configuration.
type Converter struct {
	cfg       *config.Config
	outputDir string
	logger    *slog.Logger
	reporter  Reporter
	engine    *render.Engine
}

// New creates a converter. A nil reporter is replaced by NopReporter.
// An empty cfg.OutputDir means the current directory.
func New(cfg *config.Config, logger *slog.Logger, reporter Reporter) (*Converter, error) {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	outputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	return &Converter{
		cfg:       cfg,
		outputDir: outputDir,
		logger:    logger,
		reporter:  reporter,
		engine:    render.NewEngine(cfg.TemplateDir),
	}, nil
}

// OutputDir returns the absolute output directory.
func (c *Converter) OutputDir() string {
	return c.outputDir
}

// Model loads the database found in dir and returns the grouped commands
// without writing anything.
func (c *Converter) Model(dir string) (compiledb.LanguageGroup, *Stats, error) {
	path := compiledb.DatabasePath(dir)
	c.logger.Debug("loading compile command database", "path", path)

	records, err := compiledb.LoadDatabase(path)
	if err != nil {
		return nil, nil, err
	}

	baseDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve database directory: %w", err)
	}

	cmds, stats, err := c.parse(records, baseDir)
	if err != nil {
		return nil, nil, err
	}

	group := compiledb.Group(cmds, c.cfg.Compilers)
	stats.FilteredCompiler = len(cmds) - group.Len()
	for _, lang := range group.Languages() {
		stats.Languages[lang] = len(group[lang])
	}

	c.logger.Debug("grouped compile commands",
		"parsed", stats.Parsed,
		"filtered_compiler", stats.FilteredCompiler,
		"languages", len(stats.Languages),
	)
	return group, stats, nil
}

// parse turns records into commands, applying exclude patterns and the
// malformed-record policy. Records with an empty or relative directory are
// resolved against baseDir, the directory holding the database.
func (c *Converter) parse(records []compiledb.Record, baseDir string) ([]compiledb.CompileCommand, *Stats, error) {
	stats := &Stats{
		Records:   len(records),
		Languages: make(map[compiledb.Language]int),
	}

	filter, err := compiledb.NewFileFilter(c.cfg.Exclude)
	if err != nil {
		return nil, nil, err
	}

	statCache, err := compiledb.NewStatCache(statCacheCapacity, compiledb.StatExists)
	if err != nil {
		return nil, nil, err
	}
	defer statCache.Close()

	norm := compiledb.NewNormalizer(c.outputDir, statCache.Exists)

	c.reporter.OnParseStart(len(records))
	cmds := make([]compiledb.CompileCommand, 0, len(records))
	for _, rec := range records {
		if pattern, excluded := filter.Excluded(rec.File); excluded {
			c.logger.Debug("excluding record", "file", rec.File, "pattern", pattern)
			stats.Excluded++
			c.reporter.OnRecordParsed(rec.File)
			continue
		}

		if !filepath.IsAbs(rec.Directory) {
			rec.Directory = filepath.Join(baseDir, rec.Directory)
		}

		cmd, err := compiledb.ParseCommand(rec, norm)
		if err != nil {
			var malformed *compiledb.MalformedCommandError
			if errors.As(err, &malformed) && c.cfg.SkipMalformed {
				c.logger.Warn("skipping malformed record", "file", rec.File, "reason", malformed.Reason)
				stats.Malformed++
				c.reporter.OnRecordParsed(rec.File)
				continue
			}
			return nil, nil, err
		}

		cmds = append(cmds, *cmd)
		stats.Parsed++
		c.reporter.OnRecordParsed(rec.File)
	}
	c.reporter.OnParseComplete(stats)

	return cmds, stats, nil
}

// Run converts the database found in dir and writes every enabled output.
func (c *Converter) Run(dir string) (*Result, error) {
	group, stats, err := c.Model(dir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &Result{Stats: stats, Outputs: []Output{}}
	for _, name := range c.cfg.Enabled {
		out, err := c.build(name, group)
		if err != nil {
			return nil, err
		}
		result.Outputs = append(result.Outputs, *out)
	}

	return result, nil
}

// build runs one builder and writes its rendered output.
func (c *Converter) build(name string, group compiledb.LanguageGroup) (*Output, error) {
	b, err := builder.New(name)
	if err != nil {
		return nil, err
	}

	opts, ok := c.cfg.BuilderOptionsFor(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", config.ErrMissingBuilderOptions, name)
	}

	c.logger.Debug("running builder", "builder", name, "absolute", opts.Absolute)
	ctx := b.Build(group, builder.Options{OutputDir: c.outputDir, Absolute: opts.Absolute})

	data, err := c.engine.Render(b.Template(), ctx)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(c.outputDir, opts.Name)
	if err := render.WriteFile(path, data); err != nil {
		return nil, err
	}

	c.logger.Info("wrote output", "builder", name, "path", path)
	c.reporter.OnFileWritten(b.Kind(), path)
	return &Output{Kind: b.Kind(), Path: path}, nil
}
