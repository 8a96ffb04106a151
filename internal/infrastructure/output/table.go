package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/reglet-dev/offloadcfg/internal/application/dto"
	"github.com/reglet-dev/offloadcfg/internal/application/ports"
)

// TableFormatter formats a configuration load as human-readable tables.
type TableFormatter struct {
	writer      io.Writer
	options     ports.FormatterOptions
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer, options ports.FormatterOptions) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		options:     options,
		EnableColor: true, // Default to true, caller can disable
	}
}

// Format writes the selected view as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(resp *dto.LoadResponse) error {
	report, err := BuildReport(resp, f.options.View, f.options.Explain)
	if err != nil {
		return err
	}

	switch f.options.View {
	case ViewDevices:
		f.renderDevices(report.Devices)
	case ViewSubstitutions:
		f.renderSubstitutions(report.Substitutions, report.Skipped)
	default:
		f.renderFeatures(report.Features)
	}

	fmt.Fprintf(f.writer, "%s %s\n", f.colorize(text.FgHiBlue, "Source:"), report.Source)
	return nil
}

func (f *TableFormatter) renderFeatures(features []FeatureView) {
	if len(features) == 0 {
		fmt.Fprintln(f.writer, f.colorize(text.FgYellow, "No features derived"))
		return
	}

	t := f.createTable()
	if f.options.Explain {
		t.AppendHeader(table.Row{f.header("FEATURE"), f.header("REASON")})
		for _, feat := range features {
			t.AppendRow(table.Row{feat.Name, strings.Join(feat.Reasons, "\n")})
		}
	} else {
		t.AppendHeader(table.Row{f.header("FEATURE")})
		for _, feat := range features {
			t.AppendRow(table.Row{feat.Name})
		}
	}
	t.Render()
	fmt.Fprintf(f.writer, "%s %d\n", f.colorize(text.FgHiBlue, "Total:"), len(features))
}

func (f *TableFormatter) renderSubstitutions(subs []SubstitutionView, skipped []SkippedView) {
	if len(subs) == 0 {
		fmt.Fprintln(f.writer, f.colorize(text.FgYellow, "No substitutions bound"))
	} else {
		t := f.createTable()
		t.AppendHeader(table.Row{f.header("TOKEN"), f.header("COMMAND")})
		for _, s := range subs {
			t.AppendRow(table.Row{s.Token, s.Command})
		}
		t.Render()
	}

	if len(skipped) == 0 {
		return
	}

	t := f.createTable()
	t.SetTitle("Skipped tools")
	t.AppendHeader(table.Row{f.header("TOOL"), f.header("REASON")})
	for _, s := range skipped {
		t.AppendRow(table.Row{s.Tool, s.Reason})
	}
	t.Render()
}

func (f *TableFormatter) renderDevices(devices []DeviceView) {
	if len(devices) == 0 {
		fmt.Fprintln(f.writer, f.colorize(text.FgYellow, "No devices reported"))
		return
	}

	t := f.createTable()
	t.AppendHeader(table.Row{f.header("API"), f.header("DESCRIPTION"), f.header("CAPABILITIES")})
	for _, d := range devices {
		caps := make([]string, 0, len(d.Capabilities))
		for _, name := range sortedKeys(d.Capabilities) {
			caps = append(caps, name+" = "+d.Capabilities[name])
		}
		t.AppendRow(table.Row{d.API, d.Description, strings.Join(caps, "\n")})
	}
	t.Render()
}

func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.writer)
	t.SetStyle(table.StyleRounded)
	if !f.EnableColor {
		t.Style().Color = table.ColorOptions{}
	}
	return t
}

func (f *TableFormatter) header(s string) string {
	return f.colorize(text.FgHiCyan, s)
}

// colorize wraps s in the given color when color output is enabled.
func (f *TableFormatter) colorize(color text.Color, s string) string {
	if !f.EnableColor {
		return s
	}
	return color.Sprint(s)
}
