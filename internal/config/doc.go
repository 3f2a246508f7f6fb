// Package config provides configuration structures and utilities for newsbrief.
// It defines the options for the search, collection and summarization stages
// and loads optional overrides from a YAML file and the process environment.
package config
