package output

import (
	"fmt"
	"sort"

	"github.com/reglet-dev/offloadcfg/internal/application/dto"
)

// Report views.
const (
	ViewFeatures      = "features"
	ViewSubstitutions = "substitutions"
	ViewDevices       = "devices"
)

// FeatureView is one derived feature.
type FeatureView struct {
	Name    string   `json:"name" yaml:"name"`
	Reasons []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

// SubstitutionView is one registry entry.
type SubstitutionView struct {
	Token   string `json:"token" yaml:"token"`
	Command string `json:"command" yaml:"command"`
}

// SkippedView is a tool request that produced no substitution.
type SkippedView struct {
	Tool   string `json:"tool" yaml:"tool"`
	Reason string `json:"reason" yaml:"reason"`
}

// DeviceView is one device as reported by the capability source.
type DeviceView struct {
	Capabilities map[string]string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	API          string            `json:"api" yaml:"api"`
	Description  string            `json:"description" yaml:"description"`
}

// Report is the serializable form of a configuration load for one view.
// Only the sections of the selected view are populated.
type Report struct {
	LoadID        string             `json:"load_id" yaml:"load_id"`
	Source        string             `json:"source" yaml:"source"`
	Features      []FeatureView      `json:"features,omitempty" yaml:"features,omitempty"`
	Substitutions []SubstitutionView `json:"substitutions,omitempty" yaml:"substitutions,omitempty"`
	Skipped       []SkippedView      `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Devices       []DeviceView       `json:"devices,omitempty" yaml:"devices,omitempty"`
}

// BuildReport projects a load response onto a view.
// An empty view selects features.
func BuildReport(resp *dto.LoadResponse, view string, explain bool) (*Report, error) {
	if resp == nil {
		return nil, fmt.Errorf("no load result to format")
	}

	report := &Report{
		LoadID: resp.LoadID.String(),
		Source: resp.Source,
	}

	switch view {
	case "", ViewFeatures:
		report.Features = featureViews(resp, explain)
	case ViewSubstitutions:
		report.Substitutions, report.Skipped = substitutionViews(resp, explain)
	case ViewDevices:
		report.Devices = deviceViews(resp)
	default:
		return nil, fmt.Errorf("unknown view: %s (supported: %v)", view, SupportedViews())
	}
	return report, nil
}

// SupportedViews returns the view names.
func SupportedViews() []string {
	return []string{ViewFeatures, ViewSubstitutions, ViewDevices}
}

func featureViews(resp *dto.LoadResponse, explain bool) []FeatureView {
	reasons := make(map[string][]string)
	if explain {
		for _, d := range resp.Derivations {
			name := d.Flag.String()
			reasons[name] = append(reasons[name], d.Reason)
		}
	}

	names := resp.Features.Names()
	views := make([]FeatureView, 0, len(names))
	for _, name := range names {
		views = append(views, FeatureView{Name: name, Reasons: reasons[name]})
	}
	return views
}

func substitutionViews(resp *dto.LoadResponse, explain bool) ([]SubstitutionView, []SkippedView) {
	var subs []SubstitutionView
	if resp.Registry != nil {
		for _, s := range resp.Registry.Substitutions() {
			subs = append(subs, SubstitutionView{Token: s.Token, Command: s.Command})
		}
	}

	if !explain {
		return subs, nil
	}

	skipped := make([]SkippedView, 0, len(resp.Skipped))
	for _, s := range resp.Skipped {
		skipped = append(skipped, SkippedView{Tool: s.Request.LogicalName, Reason: string(s.Reason)})
	}
	return subs, skipped
}

func deviceViews(resp *dto.LoadResponse) []DeviceView {
	views := make([]DeviceView, 0, len(resp.Devices))
	for _, d := range resp.Devices {
		view := DeviceView{API: d.API().String(), Description: d.Description()}
		if names := d.CapabilityNames(); len(names) > 0 {
			view.Capabilities = make(map[string]string, len(names))
			for _, name := range names {
				view.Capabilities[name], _ = d.Capability(name)
			}
		}
		views = append(views, view)
	}
	return views
}

// sortedKeys returns the keys of m in order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
