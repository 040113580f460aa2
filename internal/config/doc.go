// Package config loads, parses and validates application settings from
// environment variables (prefix TASKFLOW_), an optional .env file and an
// optional config.yaml. It keeps configuration details separate from
// business logic.
package config
