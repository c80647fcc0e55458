// Package zap implements the engine log.Logger on top of go.uber.org/zap.
package zap
