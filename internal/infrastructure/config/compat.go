package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	apperrors "github.com/reglet-dev/offloadcfg/internal/application/errors"
)

// CheckCompatibility verifies the harness version satisfies the "requires"
// constraint. Development builds (non-semver versions such as "dev") are
// always accepted.
func (c *Config) CheckCompatibility(harnessVersion string) error {
	if c.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return apperrors.NewConfigurationError("requires", fmt.Sprintf("invalid version constraint %q", c.Requires), err)
	}

	v, err := semver.NewVersion(harnessVersion)
	if err != nil {
		return nil
	}

	if !constraint.Check(v) {
		return apperrors.NewConfigurationError("requires",
			fmt.Sprintf("offloadcfg %s does not satisfy %q", v, c.Requires), nil)
	}
	return nil
}
