package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for:
//   - Duplicate profile IDs
//   - Alpha levels outside (0, 1]
//   - Empty partitions and features listed in both families
//   - Unknown numeric test kinds
func Validate(cfg *Config) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	ids := make(map[string]struct{})
	var errs []string

	for i, p := range cfg.Profiles {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("profiles[%d]: id is required", i))
			continue
		}
		if _, ok := ids[p.ID]; ok {
			errs = append(errs, fmt.Sprintf("duplicate profile id %q", p.ID))
		} else {
			ids[p.ID] = struct{}{}
		}
		if p.Alpha <= 0 || p.Alpha > 1 {
			errs = append(errs, fmt.Sprintf("profile %s: alpha must be in (0, 1], got %g", p.ID, p.Alpha))
		}
		if len(p.NumericFeatures) == 0 && len(p.CategoricalFeatures) == 0 {
			errs = append(errs, fmt.Sprintf("profile %s: at least one feature is required", p.ID))
		}
		numeric := make(map[string]struct{}, len(p.NumericFeatures))
		for _, f := range p.NumericFeatures {
			if _, ok := numeric[f]; ok {
				errs = append(errs, fmt.Sprintf("profile %s: numeric feature %q listed twice", p.ID, f))
			}
			numeric[f] = struct{}{}
		}
		catSeen := make(map[string]struct{}, len(p.CategoricalFeatures))
		for _, f := range p.CategoricalFeatures {
			if _, ok := numeric[f]; ok {
				errs = append(errs, fmt.Sprintf("profile %s: feature %q is both numeric and categorical", p.ID, f))
			}
			if _, ok := catSeen[f]; ok {
				errs = append(errs, fmt.Sprintf("profile %s: categorical feature %q listed twice", p.ID, f))
			}
			catSeen[f] = struct{}{}
		}
		switch p.NumericTest {
		case "", "ks", "js":
		default:
			errs = append(errs, fmt.Sprintf("profile %s: numeric_test must be \"ks\" or \"js\", got %q", p.ID, p.NumericTest))
		}
		if p.JSThreshold < 0 {
			errs = append(errs, fmt.Sprintf("profile %s: js_threshold must be non-negative, got %g", p.ID, p.JSThreshold))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
