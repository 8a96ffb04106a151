// Package dto contains the request and response types of application use cases.
package dto

import (
	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
	"github.com/reglet-dev/offloadcfg/internal/domain/entities"
)

// LoadRequest is the immutable input of one configuration load.
type LoadRequest struct {
	// Overrides map logical tool names to configured paths.
	Overrides map[string]string
	// Rules replaces the default vendor rule table when non-nil.
	Rules   []capabilities.Rule
	Tools   []entities.ToolRequest
	Toggles capabilities.Toggles
}
