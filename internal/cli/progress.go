package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/mvp-joe/ccconv/internal/builder"
	"github.com/mvp-joe/ccconv/internal/convert"
	"github.com/schollz/progressbar/v3"
)

// progressThreshold is the record count below which no bar is drawn.
const progressThreshold = 200

// CLIProgressReporter implements convert.Reporter with a progress bar on
// large databases and a short summary once outputs are written.
type CLIProgressReporter struct {
	quiet     bool
	out       io.Writer // Summary lines
	barOut    io.Writer // Progress bar
	parseBar  *progressbar.ProgressBar
	startTime time.Time
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(out, barOut io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		out:       out,
		barOut:    barOut,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnParseStart(totalRecords int) {
	if c.quiet {
		return
	}
	c.startTime = time.Now()
	c.parseBar = nil
	if totalRecords < progressThreshold {
		return
	}

	c.parseBar = progressbar.NewOptions(totalRecords,
		progressbar.OptionSetWriter(c.barOut),
		progressbar.OptionSetDescription("Parsing commands"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("cmds/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.barOut)
		}),
	)
}

func (c *CLIProgressReporter) OnRecordParsed(file string) {
	if c.quiet {
		return
	}
	if c.parseBar != nil {
		c.parseBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnParseComplete(stats *convert.Stats) {
	if c.quiet {
		return
	}
	if c.parseBar != nil {
		c.parseBar.Finish()
		c.parseBar = nil
	}

	fmt.Fprintf(c.out, "✓ Parsed %d of %d commands in %.1fs\n",
		stats.Parsed, stats.Records, time.Since(c.startTime).Seconds())
	if stats.Excluded > 0 {
		fmt.Fprintf(c.out, "  Excluded:  %d\n", stats.Excluded)
	}
	if stats.Malformed > 0 {
		fmt.Fprintf(c.out, "  Malformed: %d (skipped)\n", stats.Malformed)
	}
}

func (c *CLIProgressReporter) OnFileWritten(kind builder.Kind, path string) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "✓ %s: %s\n", kind, path)
}
