// Package config defines server settings and provides helpers to load,
// validate and save them in YAML format.
//
// The Config type holds the HTTP listen address, the state file path, the
// auth guard settings and the downstream publisher settings.
package config
