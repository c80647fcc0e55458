package account

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Account is the balance state of one client. Its methods are safe for
// concurrent use.
type Account struct {
	mu        sync.Mutex
	clientID  uint16
	available decimal.Decimal
	held      decimal.Decimal
	total     decimal.Decimal
	locked    bool
}

func newAccount(clientID uint16) *Account {
	return &Account{clientID: clientID}
}

// ClientID returns the owning client id.
func (a *Account) ClientID() uint16 {
	return a.clientID
}

// Snapshot returns a copy of the current state.
func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.snapshotLocked()
}

func (a *Account) snapshotLocked() Snapshot {
	return Snapshot{
		ClientID:  a.clientID,
		Available: a.available,
		Held:      a.held,
		Total:     a.total,
		Locked:    a.locked,
	}
}

func (a *Account) credit(amount decimal.Decimal) {
	a.available = a.available.Add(amount)
	a.total = a.total.Add(amount)
}

func (a *Account) debit(amount decimal.Decimal) {
	a.available = a.available.Sub(amount)
	a.total = a.total.Sub(amount)
}

func (a *Account) hold(amount decimal.Decimal) {
	a.available = a.available.Sub(amount)
	a.held = a.held.Add(amount)
}

func (a *Account) release(amount decimal.Decimal) {
	a.held = a.held.Sub(amount)
	a.available = a.available.Add(amount)
}

func (a *Account) reverse(amount decimal.Decimal) {
	a.held = a.held.Sub(amount)
	a.total = a.total.Sub(amount)
	a.locked = true
}

// Snapshot is an immutable copy of an Account.
type Snapshot struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Equal compares snapshots by value, ignoring decimal representation.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.ClientID == other.ClientID &&
		s.Available.Equal(other.Available) &&
		s.Held.Equal(other.Held) &&
		s.Total.Equal(other.Total) &&
		s.Locked == other.Locked
}
