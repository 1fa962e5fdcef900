// Package config defines the YAML configuration for the vesta daemon
// and CLI: watched directories, the AI collaborator endpoint, queue
// locations, scheduler intervals and telemetry. Loading applies
// defaults, then VESTA_* environment overrides, then validation.
package config
