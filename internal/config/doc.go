// Package config loads, normalizes, and validates echo configuration data.
//
// Settings come from an optional TOML file with repository defaults; the two
// API credentials come only from environment variables so they never end up
// in a config file or shell history. Always obtain settings through this
// package so downstream code receives expanded paths and validated values.
package config
