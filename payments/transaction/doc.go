// Package transaction defines the input record model of the engine.
//
// Core pieces:
//   - Kind is the closed set of record kinds, parsed case-insensitively by ParseKind.
//   - Record carries one input row; only deposits and withdrawals carry an Amount.
//   - ParseAmount reads a decimal with at most four fractional digits.
//
// Validation failures are reported as DomainError values with a stable ErrorCode.
package transaction
