// Package config loads the YAML run configuration, applies BUSGRAPH_*
// environment overrides and validates the result with struct tags.
package config
