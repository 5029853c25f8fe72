// Package config loads and validates application settings from an optional
// config.yaml file and STOREFRONT_-prefixed environment variables.
package config
