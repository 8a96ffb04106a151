package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/offloadcfg/internal/application/dto"
	"github.com/reglet-dev/offloadcfg/internal/application/ports"
)

// YAMLFormatter formats a configuration load as YAML.
type YAMLFormatter struct {
	writer  io.Writer
	options ports.FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer, options ports.FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{writer: w, options: options}
}

// Format writes the selected view as YAML.
func (f *YAMLFormatter) Format(resp *dto.LoadResponse) error {
	report, err := BuildReport(resp, f.options.View, f.options.Explain)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))
	if err := encoder.Encode(report); err != nil {
		return err
	}

	return encoder.Close()
}
