// Package assert checks account invariants at runtime.
//
// A failed check never panics. It is logged at error level, counted in
// assertion_failed_total, added to the active span as an assertion.failed
// event and returned as an *AssertionError, which matches ErrAssertionFailed.
package assert
