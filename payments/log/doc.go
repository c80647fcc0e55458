// Package log defines the logging contract used across the payments engine.
//
// Engine packages only depend on Logger; the zap package provides the
// production implementation and NopLogger is the null object.
package log
