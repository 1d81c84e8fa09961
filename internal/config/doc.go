// Package config loads the deploytrack configuration from an optional YAML
// file, fills defaults, and resolves secrets and overrides from the
// environment (GRAFANA_URL, GRAFANA_API_KEY, DATA_URL). A missing config file
// yields pure defaults so every command runs with zero setup.
package config
