package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/offloadcfg/internal/application/dto"
	"github.com/reglet-dev/offloadcfg/internal/application/ports"
)

// JSONFormatter formats a configuration load as JSON.
type JSONFormatter struct {
	writer  io.Writer
	options ports.FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
// If options.Indent is true, the output will be pretty-printed.
func NewJSONFormatter(w io.Writer, options ports.FormatterOptions) *JSONFormatter {
	return &JSONFormatter{
		writer:  w,
		options: options,
	}
}

// Format writes the selected view as JSON.
func (f *JSONFormatter) Format(resp *dto.LoadResponse) error {
	report, err := BuildReport(resp, f.options.View, f.options.Explain)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(f.writer)
	if f.options.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}
