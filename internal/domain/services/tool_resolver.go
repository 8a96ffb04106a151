package services

import (
	"fmt"

	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
	"github.com/reglet-dev/offloadcfg/internal/domain/entities"
)

// ToolLocator resolves logical tool names to executable paths.
type ToolLocator interface {
	// Locate returns the absolute path of the named tool.
	Locate(logicalName string) (string, bool)
	// Exists reports whether a literal path names an existing file.
	Exists(path string) bool
}

// SkipReason explains why a tool request produced no binding.
type SkipReason string

const (
	SkipGateClosed      SkipReason = "feature gate not satisfied"
	SkipOptionalMissing SkipReason = "optional tool not found"
)

// SkippedTool is a request that was intentionally not bound.
type SkippedTool struct {
	Request entities.ToolRequest
	Reason  SkipReason
}

// Resolution is the outcome of resolving an ordered list of tool requests.
type Resolution struct {
	Bindings []entities.ToolBinding
	Skipped  []SkippedTool
}

// ToolResolver turns tool requests into bindings.
// It is a pure function of its inputs and the locator's answers.
type ToolResolver struct {
	locator ToolLocator
}

// NewToolResolver creates a resolver backed by the given locator.
func NewToolResolver(locator ToolLocator) *ToolResolver {
	return &ToolResolver{locator: locator}
}

// Resolve binds requests in input order.
//
//   - A request whose gate does not hold is skipped without error.
//   - A later request for the same logical name or token drops the earlier
//     binding and is appended, so it is also applied last.
//   - A literal path must exist and is used verbatim; the locator is never
//     asked for it, so a mistyped path cannot bind another binary.
//   - A required tool that cannot be found fails with *entities.ToolNotFoundError.
func (r *ToolResolver) Resolve(requests []entities.ToolRequest, features capabilities.FeatureSet) (*Resolution, error) {
	res := &Resolution{}

	for _, req := range requests {
		if err := req.Validate(); err != nil {
			return nil, err
		}

		gate, err := CompileGate(req.FeatureGate)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", req.LogicalName, err)
		}
		holds, err := gate.Holds(features)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", req.LogicalName, err)
		}
		if !holds {
			res.Skipped = append(res.Skipped, SkippedTool{Request: req, Reason: SkipGateClosed})
			continue
		}

		path, found := r.locate(req)
		if !found {
			if req.Optional {
				res.Skipped = append(res.Skipped, SkippedTool{Request: req, Reason: SkipOptionalMissing})
				continue
			}
			return nil, &entities.ToolNotFoundError{LogicalName: req.LogicalName, Path: req.Path}
		}

		binding := entities.ToolBinding{
			Token:       req.PlaceholderToken(),
			LogicalName: req.LogicalName,
			Path:        path,
			FeatureGate: gate.String(),
			ExtraArgs:   append([]string(nil), req.ExtraArgs...),
		}

		res.Bindings = append(supersede(res.Bindings, binding), binding)
	}

	return res, nil
}

// supersede removes bindings that share a logical name or token with b.
func supersede(bindings []entities.ToolBinding, b entities.ToolBinding) []entities.ToolBinding {
	kept := bindings[:0]
	for _, existing := range bindings {
		if existing.LogicalName == b.LogicalName || existing.Token == b.Token {
			continue
		}
		kept = append(kept, existing)
	}
	return kept
}

func (r *ToolResolver) locate(req entities.ToolRequest) (string, bool) {
	if req.Strategy == entities.StrategyLiteral {
		if r.locator.Exists(req.Path) {
			return req.Path, true
		}
		return "", false
	}
	return r.locator.Locate(req.LogicalName)
}
