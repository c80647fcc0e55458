// Package errgroup runs partition workers that share a cancellation context.
//
// The first worker error cancels the group context and is returned by Wait;
// recovered panics are converted into errors wrapping ErrPanicRecovered.
package errgroup
