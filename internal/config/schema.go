package config

// Config is the top-level YAML structure.
type Config struct {
	Version  string     `yaml:"version"`
	Engine   EngineConf `yaml:"engine"`
	Profiles []Profile  `yaml:"profiles"`
}

// EngineConf holds tunable concurrency settings for the check engine.
type EngineConf struct {
	CheckWorkers   int `yaml:"check_workers"`
	QueueDepth     int `yaml:"queue_depth"`
	CheckTimeoutMs int `yaml:"check_timeout_ms"`
}

// Profile is a named, reusable monitoring setup: which features to watch,
// how they split into numeric and categorical families, and the thresholds
// to test under. Checks reference a profile by ID instead of repeating the
// partition inline.
type Profile struct {
	ID                  string   `yaml:"id" json:"id"`
	Description         string   `yaml:"description" json:"description,omitempty"`
	Alpha               float64  `yaml:"alpha" json:"alpha"`
	NumericFeatures     []string `yaml:"numeric_features" json:"numeric_features"`
	CategoricalFeatures []string `yaml:"categorical_features" json:"categorical_features"`
	// NumericTest selects the numeric family's comparator: "ks" (default)
	// or "js".
	NumericTest string `yaml:"numeric_test" json:"numeric_test"`
	// JSThreshold is the Jensen–Shannon distance above which a feature is
	// flagged; only meaningful when NumericTest is "js".
	JSThreshold float64 `yaml:"js_threshold" json:"js_threshold,omitempty"`
}
