// Package config loads and validates AuthFlow configuration.
//
// Configuration comes from three layers, each overriding the last:
// hardcoded defaults, a YAML file, and AUTHFLOW_* environment variables.
// Validation is strict about the JWT signing secret — the server refuses
// to start without one of adequate length.
package config
