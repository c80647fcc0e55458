package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/LerianStudio/payments-engine/payments/account"
	"github.com/LerianStudio/payments-engine/payments/transaction"
)

var header = []string{"client", "available", "held", "total", "locked"}

// WriteSnapshots writes a header and one row per snapshot to w.
func WriteSnapshots(w io.Writer, snapshots iter.Seq[account.Snapshot]) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))

	for snap := range snapshots {
		row[0] = strconv.FormatUint(uint64(snap.ClientID), 10)
		row[1] = transaction.FormatAmount(snap.Available)
		row[2] = transaction.FormatAmount(snap.Held)
		row[3] = transaction.FormatAmount(snap.Total)
		row[4] = strconv.FormatBool(snap.Locked)

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write client %d: %w", snap.ClientID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
