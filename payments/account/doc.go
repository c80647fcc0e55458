// Package account applies transaction records to per-client accounts.
//
// A Book owns one Account per client id, created on the first record that
// names the client, and a shared ledger.Ledger used to detect duplicate ids
// and to drive the dispute protocol:
//
//	deposit     available += amt, total += amt
//	withdrawal  available -= amt, total -= amt      (needs available >= amt)
//	dispute     available -= amt, held += amt       (needs available >= amt)
//	resolve     held -= amt, available += amt
//	chargeback  held -= amt, total -= amt, locked
//
// Locked accounts ignore deposits and withdrawals but still settle disputes.
// Guard failures are no-ops reported through Outcome; the only error a
// record can cause is a duplicate transaction id, or a broken balance
// invariant reported by the assert package.
package account
