// Package runtime turns panics recovered in engine goroutines into an error
// log entry, a panic_recovered_total increment and a panic.recovered span
// event. In production mode the panic value and stack are redacted.
package runtime
