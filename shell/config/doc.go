// Package config reads the process configuration from the environment and builds the
// infrastructure it describes: Postgres connections, the slog logger and OpenTelemetry providers.
package config
