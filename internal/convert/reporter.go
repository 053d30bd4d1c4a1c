package convert

import "github.com/mvp-joe/ccconv/internal/builder"

// Reporter receives progress notifications from a conversion run.
type Reporter interface {
	OnParseStart(totalRecords int)
	OnRecordParsed(file string)
	OnParseComplete(stats *Stats)
	OnFileWritten(kind builder.Kind, path string)
}

// NopReporter ignores all notifications.
type NopReporter struct{}

func (NopReporter) OnParseStart(int)                   {}
func (NopReporter) OnRecordParsed(string)              {}
func (NopReporter) OnParseComplete(*Stats)             {}
func (NopReporter) OnFileWritten(builder.Kind, string) {}
