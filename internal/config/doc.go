// Package config loads the tool settings (project root, output format,
// docgen strictness, logging, and the serve-mode HTTP settings) from a YAML
// file, environment variables and CLI flags with precedence: CLI flags >
// YAML config > Environment variables > Defaults. Build options that shape
// the composed configuration live in package options instead.
package config
