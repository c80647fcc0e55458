package account

import (
	"errors"

	constant "github.com/LerianStudio/payments-engine/payments/constants"
	"github.com/LerianStudio/payments-engine/payments/ledger"
	"github.com/LerianStudio/payments-engine/payments/transaction"
)

// Reason explains why a record was ignored.
type Reason string

const (
	ReasonInvalidRecord     Reason = constant.ReasonInvalidRecord
	ReasonAccountLocked     Reason = constant.ReasonAccountLocked
	ReasonNonPositiveAmount Reason = constant.ReasonNonPositiveAmount
	ReasonInsufficientFunds Reason = constant.ReasonInsufficientFunds
	ReasonUnknownTx         Reason = constant.ReasonUnknownTx
	ReasonClientMismatch    Reason = constant.ReasonClientMismatch
	ReasonNotDisputable     Reason = constant.ReasonNotDisputable
	ReasonAlreadyDisputed   Reason = constant.ReasonAlreadyDisputed
	ReasonNotDisputed       Reason = constant.ReasonNotDisputed
	ReasonChargedBack       Reason = constant.ReasonChargedBack
)

// Outcome reports what Apply did with a record.
type Outcome struct {
	Record  transaction.Record
	Applied bool
	Reason  Reason
}

func applied(record transaction.Record) Outcome {
	return Outcome{Record: record, Applied: true}
}

func ignored(record transaction.Record, reason Reason) Outcome {
	return Outcome{Record: record, Reason: reason}
}

func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return ReasonUnknownTx
	case errors.Is(err, ledger.ErrClientMismatch):
		return ReasonClientMismatch
	case errors.Is(err, ledger.ErrNotDisputable):
		return ReasonNotDisputable
	case errors.Is(err, ledger.ErrAlreadyDisputed):
		return ReasonAlreadyDisputed
	case errors.Is(err, ledger.ErrChargedBack):
		return ReasonChargedBack
	default:
		return ReasonNotDisputed
	}
}
