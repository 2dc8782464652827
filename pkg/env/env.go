package env

import "os"

// Get reads an environment variable, falling back when unset or empty.
// It exists below pkg/config so the logger can bootstrap before the
// typed config has been loaded.
func Get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
