// Package config loads the YAML settings file: page limit, database
// connection and logging.
package config
