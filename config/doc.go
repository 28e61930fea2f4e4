// Package config provides unified configuration loading for the lecture
// backend: defaults, YAML file, then environment overrides with the
// LECTURE_ prefix.
package config
