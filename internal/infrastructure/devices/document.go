// Package devices implements capability sources: adapters that enumerate the
// devices reported by the api-query tool and decode its YAML document.
package devices

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
	"github.com/reglet-dev/offloadcfg/internal/domain/values"
)

//go:embed schema.json
var documentSchema []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// ErrMalformedDocument is returned when the query output is not a device document.
var ErrMalformedDocument = errors.New("malformed device document")

// Document is the wire form of the api-query output.
type Document struct {
	Devices []DeviceEntry `yaml:"Devices" json:"Devices"`
}

// DeviceEntry is one element of the Devices list.
// Features is either a list of "Name = value" strings or, as the query tool
// prints it without list markers, one folded string of such pairs.
type DeviceEntry struct {
	Features    any    `yaml:"Features,omitempty" json:"Features,omitempty"`
	API         string `yaml:"API" json:"API"`
	Description string `yaml:"Description" json:"Description"`
}

// ParseDocument validates and decodes a device document.
// Devices with an API literal this tool does not know are kept as
// APIUnknown; the deriver ignores them.
func ParseDocument(data []byte) ([]capabilities.DeviceDescriptor, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	devices := make([]capabilities.DeviceDescriptor, 0, len(doc.Devices))
	for i, entry := range doc.Devices {
		caps, err := parseFeatures(entry.Features)
		if err != nil {
			return nil, fmt.Errorf("%w: Devices[%d].Features: %w", ErrMalformedDocument, i, err)
		}

		api, err := values.ParseGPUAPI(entry.API)
		if err != nil {
			api = values.APIUnknown
		}

		devices = append(devices, capabilities.NewDeviceDescriptor(api, strings.TrimSpace(entry.Description), caps))
	}
	return devices, nil
}

// EncodeDocument renders devices in the api-query layout, with Features as a list.
func EncodeDocument(devices []capabilities.DeviceDescriptor) ([]byte, error) {
	doc := Document{Devices: make([]DeviceEntry, 0, len(devices))}
	for _, d := range devices {
		entry := DeviceEntry{API: d.API().String(), Description: d.Description()}
		if names := d.CapabilityNames(); len(names) > 0 {
			features := make([]string, 0, len(names))
			for _, name := range names {
				v, _ := d.Capability(name)
				features = append(features, name+" = "+v)
			}
			entry.Features = features
		}
		doc.Devices = append(doc.Devices, entry)
	}
	return yaml.MarshalWithOptions(doc, yaml.Indent(2), yaml.IndentSequence(false))
}

func validateDocument(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty document", ErrMalformedDocument)
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	var instance any
	if err := json.Unmarshal(jsonData, &instance); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	if err := schema.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%w: %s", ErrMalformedDocument, formatValidationError(validationErr))
		}
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("devices.schema.json", bytes.NewReader(documentSchema)); err != nil {
			compileErr = fmt.Errorf("failed to add device schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("devices.schema.json")
	})
	return compiledSchema, compileErr
}

// formatValidationError flattens the innermost causes into one line.
func formatValidationError(err *jsonschema.ValidationError) string {
	var msgs []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(err)
	return strings.Join(msgs, "; ")
}

// parseFeatures turns the Features value into a capability map.
func parseFeatures(raw any) (map[string]string, error) {
	caps := map[string]string{}

	switch v := raw.(type) {
	case nil:
		return caps, nil
	case string:
		return caps, parseFoldedFeatures(v, caps)
	case []any:
		for i, item := range v {
			line := strings.TrimSpace(fmt.Sprint(item))
			if line == "" {
				continue
			}
			name, value, ok := splitFeature(line)
			if !ok {
				return nil, fmt.Errorf("[%d]: expected \"Name = value\", got %q", i, line)
			}
			caps[name] = value
		}
		return caps, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", raw)
	}
}

func splitFeature(line string) (string, string, bool) {
	name, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}

// parseFoldedFeatures handles "A = 1 B = true C = Tier2" where YAML folded
// the indented lines into one plain scalar. Values are single words.
func parseFoldedFeatures(s string, caps map[string]string) error {
	fields := strings.Fields(s)
	for i := 0; i < len(fields); i += 3 {
		if i+2 >= len(fields) || fields[i+1] != "=" {
			return fmt.Errorf("expected \"Name = value\" near %q", strings.Join(fields[i:], " "))
		}
		caps[fields[i]] = fields[i+2]
	}
	return nil
}
