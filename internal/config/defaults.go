package config

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"schema_dir":            ".docgate/schemas",
		"include":               []string{"*.md", "*.json", "*.yaml"},
		"max_parallel":          4,
		"allow_missing_targets": false,
		"weighted_scoring":      false,
		"score_threshold":       60,
	}
}
