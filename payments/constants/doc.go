// Package constant holds the wire names, reason codes and telemetry keys
// shared by the engine packages.
package constant
