// Package ledger records every deposit and withdrawal by transaction id and
// tracks the dispute state of deposits.
//
// Dispute lifecycle of a deposit entry:
//
//	Normal -> Disputed -> Normal       (resolve)
//	Normal -> Disputed -> ChargedBack  (chargeback, terminal)
//
// Entries are never deleted, so a dispute against a charged-back deposit is
// detected and rejected. A Ledger is safe for concurrent use.
package ledger
