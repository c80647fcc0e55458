// Package engine wires the CSV reader, the account book and the snapshot
// writer into one run, configured from the environment.
package engine
