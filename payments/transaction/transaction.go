package transaction

import (
	"fmt"
	"strings"

	constant "github.com/LerianStudio/payments-engine/payments/constants"
	"github.com/shopspring/decimal"
)

// Kind is the kind of an input record.
type Kind string

const (
	// KindDeposit credits available and total funds.
	KindDeposit Kind = constant.DEPOSIT
	// KindWithdrawal debits available and total funds.
	KindWithdrawal Kind = constant.WITHDRAWAL
	// KindDispute moves a deposit's amount from available to held.
	KindDispute Kind = constant.DISPUTE
	// KindResolve moves a disputed amount from held back to available.
	KindResolve Kind = constant.RESOLVE
	// KindChargeback removes a disputed amount and locks the account.
	KindChargeback Kind = constant.CHARGEBACK
)

// ParseKind parses s ignoring case and surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	default:
		return "", NewDomainError(ErrorInvalidInput, "type", fmt.Sprintf("unknown transaction type %q", s))
	}
}

// String returns the wire name of k.
func (k Kind) String() string {
	return string(k)
}

// HasAmount reports whether records of kind k carry an amount.
func (k Kind) HasAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Record is one input row. Amount is nil for dispute, resolve and chargeback.
type Record struct {
	Kind     Kind
	ClientID uint16
	TxID     uint32
	Amount   *decimal.Decimal
}

// Validate checks the amount presence rule and the amount scale.
func (r Record) Validate() error {
	if _, err := ParseKind(r.Kind.String()); err != nil {
		return err
	}

	switch {
	case r.Kind.HasAmount() && r.Amount == nil:
		return NewDomainError(ErrorInvalidInput, "amount", "amount is required for "+r.Kind.String())
	case !r.Kind.HasAmount() && r.Amount != nil:
		return NewDomainError(ErrorInvalidInput, "amount", "amount is not allowed for "+r.Kind.String())
	case r.Amount != nil && !fitsScale(*r.Amount):
		return NewDomainError(ErrorInvalidInput, "amount", "amount has more than four fractional digits")
	}

	return nil
}

// AmountOrZero returns the record amount, or zero when absent.
func (r Record) AmountOrZero() decimal.Decimal {
	if r.Amount == nil {
		return decimal.Zero
	}

	return *r.Amount
}

// String renders r for logs.
func (r Record) String() string {
	if r.Amount == nil {
		return fmt.Sprintf("%s client=%d tx=%d", r.Kind, r.ClientID, r.TxID)
	}

	return fmt.Sprintf("%s client=%d tx=%d amount=%s", r.Kind, r.ClientID, r.TxID, r.Amount.String())
}

// Deposit builds a deposit record.
func Deposit(clientID uint16, txID uint32, amount decimal.Decimal) Record {
	return Record{Kind: KindDeposit, ClientID: clientID, TxID: txID, Amount: &amount}
}

// Withdrawal builds a withdrawal record.
func Withdrawal(clientID uint16, txID uint32, amount decimal.Decimal) Record {
	return Record{Kind: KindWithdrawal, ClientID: clientID, TxID: txID, Amount: &amount}
}

// Dispute builds a dispute record referencing txID.
func Dispute(clientID uint16, txID uint32) Record {
	return Record{Kind: KindDispute, ClientID: clientID, TxID: txID}
}

// Resolve builds a resolve record referencing txID.
func Resolve(clientID uint16, txID uint32) Record {
	return Record{Kind: KindResolve, ClientID: clientID, TxID: txID}
}

// Chargeback builds a chargeback record referencing txID.
func Chargeback(clientID uint16, txID uint32) Record {
	return Record{Kind: KindChargeback, ClientID: clientID, TxID: txID}
}
