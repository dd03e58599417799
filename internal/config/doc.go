// Package config provides configuration structures and utilities for the
// internal-link analyzer. It defines fetch, model, indexing, and report
// options, their defaults, and the YAML configuration file loader.
package config
