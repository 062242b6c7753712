// Package config loads the starfield settings from defaults, a TOML or YAML file and the environment.
package config

import "os"

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Path returns the config file named by STARFIELD_CONFIG, or "" for defaults.
func Path() string {
	return GetEnv(EnvConfigPath, "")
}
