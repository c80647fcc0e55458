// Package csvio reads transaction records from delimited text and writes
// account snapshots back out.
//
// Input rows have the form
//
//	type, client, tx, amount
//
// with surrounding whitespace trimmed and type matched case-insensitively. A
// leading header row is skipped. Rows that cannot be parsed are either
// skipped with a warning (the default) or reported as a *RowError that ends
// the stream, depending on WithStrict.
package csvio
