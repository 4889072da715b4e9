// Package config loads and saves ankivn settings. Values come from the YAML
// config file, ANKIVN_ environment variables and an optional .env file, in
// increasing order of precedence for the environment.
package config
