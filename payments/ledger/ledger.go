package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/LerianStudio/payments-engine/payments/transaction"
	"github.com/shopspring/decimal"
)

// ErrDuplicateTransaction is returned when a deposit or withdrawal reuses a tx id.
// It is fatal to a run.
var ErrDuplicateTransaction = transaction.DomainError{
	Code:    transaction.ErrorDuplicateTransaction,
	Field:   "tx",
	Message: "transaction id already recorded",
}

// Rejections of dispute transitions. Callers treat them all as a no-op.
var (
	ErrNotFound        = errors.New("ledger: transaction not found")
	ErrClientMismatch  = errors.New("ledger: transaction belongs to another client")
	ErrNotDisputable   = errors.New("ledger: transaction kind is not disputable")
	ErrAlreadyDisputed = errors.New("ledger: transaction already disputed")
	ErrNotDisputed     = errors.New("ledger: transaction is not under dispute")
	ErrChargedBack     = errors.New("ledger: transaction was charged back")
)

// State is the dispute state of an entry.
type State uint8

const (
	StateNormal State = iota
	StateDisputed
	StateChargedBack
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateDisputed:
		return "disputed"
	case StateChargedBack:
		return "charged_back"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Entry is the ledger view of one deposit or withdrawal.
type Entry struct {
	TxID     uint32
	ClientID uint16
	Kind     transaction.Kind
	Amount   decimal.Decimal
	State    State
}

// Ledger maps transaction ids to entries.
type Ledger struct {
	mu      sync.Mutex
	entries map[uint32]*Entry
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[uint32]*Entry)}
}

// RecordDeposit stores a deposit in state Normal.
func (l *Ledger) RecordDeposit(txID uint32, clientID uint16, amount decimal.Decimal) error {
	return l.record(txID, clientID, transaction.KindDeposit, amount)
}

// RecordWithdrawal stores a withdrawal. Withdrawals only reserve their id;
// they can never be disputed.
func (l *Ledger) RecordWithdrawal(txID uint32, clientID uint16, amount decimal.Decimal) error {
	return l.record(txID, clientID, transaction.KindWithdrawal, amount)
}

func (l *Ledger) record(txID uint32, clientID uint16, kind transaction.Kind, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.entries[txID]; ok {
		return fmt.Errorf("%w: tx %d first seen as %s for client %d", ErrDuplicateTransaction, txID, existing.Kind, existing.ClientID)
	}

	l.entries[txID] = &Entry{TxID: txID, ClientID: clientID, Kind: kind, Amount: amount, State: StateNormal}

	return nil
}

// BeginDispute moves a Normal deposit of clientID to Disputed and returns its amount.
func (l *Ledger) BeginDispute(txID uint32, clientID uint16) (decimal.Decimal, error) {
	return l.transition(txID, clientID, StateNormal, StateDisputed)
}

// Resolve moves a Disputed deposit back to Normal and returns its amount.
func (l *Ledger) Resolve(txID uint32, clientID uint16) (decimal.Decimal, error) {
	return l.transition(txID, clientID, StateDisputed, StateNormal)
}

// Chargeback moves a Disputed deposit to ChargedBack and returns its amount.
func (l *Ledger) Chargeback(txID uint32, clientID uint16) (decimal.Decimal, error) {
	return l.transition(txID, clientID, StateDisputed, StateChargedBack)
}

func (l *Ledger) transition(txID uint32, clientID uint16, from, to State) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, err := l.disputable(txID, clientID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if entry.State != from {
		return decimal.Decimal{}, stateError(entry.State)
	}

	entry.State = to

	return entry.Amount, nil
}

// disputable resolves txID to an entry that may take part in the dispute protocol.
// Only deposits qualify today; new disputable kinds are added as cases here.
func (l *Ledger) disputable(txID uint32, clientID uint16) (*Entry, error) {
	entry, ok := l.entries[txID]
	if !ok {
		return nil, ErrNotFound
	}

	if entry.ClientID != clientID {
		return nil, ErrClientMismatch
	}

	switch entry.Kind {
	case transaction.KindDeposit:
		return entry, nil
	default:
		return nil, ErrNotDisputable
	}
}

func stateError(current State) error {
	switch current {
	case StateDisputed:
		return ErrAlreadyDisputed
	case StateChargedBack:
		return ErrChargedBack
	default:
		return ErrNotDisputed
	}
}

// Lookup returns a copy of the entry for txID.
func (l *Ledger) Lookup(txID uint32) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[txID]
	if !ok {
		return Entry{}, false
	}

	return *entry, true
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}
