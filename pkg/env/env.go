// Package env reads optional process environment variables.
package env

import "os"

// Get returns the value of key, or fallback when the variable is unset or
// empty. Empty counts as unset so `FOO=` in a unit file does not silently
// disable a feature.
func Get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
