package account

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/LerianStudio/payments-engine/payments/assert"
	constant "github.com/LerianStudio/payments-engine/payments/constants"
	"github.com/LerianStudio/payments-engine/payments/internal/nilcheck"
	"github.com/LerianStudio/payments-engine/payments/ledger"
	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry/metrics"
	"github.com/LerianStudio/payments-engine/payments/transaction"
	"go.opentelemetry.io/otel/attribute"
)

const component = "account"

// Book maps client ids to accounts and applies records to them.
// It is safe for concurrent use; records of one client must still be
// applied in arrival order by the caller.
type Book struct {
	mu       sync.RWMutex
	accounts map[uint16]*Account
	ledger   *ledger.Ledger
	logger   log.Logger
	metrics  *metrics.MetricsFactory
	asserter *assert.Asserter
}

// Option configures a Book.
type Option func(*Book)

// WithLedger shares an existing ledger with the book.
func WithLedger(l *ledger.Ledger) Option {
	return func(b *Book) {
		if l != nil {
			b.ledger = l
		}
	}
}

// WithLogger sets the logger. Ignored records are logged at debug level.
func WithLogger(logger log.Logger) Option {
	return func(b *Book) {
		if !nilcheck.Interface(logger) {
			b.logger = logger
		}
	}
}

// WithMetrics sets the metrics factory.
func WithMetrics(factory *metrics.MetricsFactory) Option {
	return func(b *Book) {
		if factory != nil {
			b.metrics = factory
		}
	}
}

// NewBook returns an empty Book.
func NewBook(opts ...Option) *Book {
	b := &Book{
		accounts: make(map[uint16]*Account),
		ledger:   ledger.New(),
		logger:   log.NewNop(),
		metrics:  metrics.NewNopFactory(),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.asserter = assert.New(component, "apply", assert.WithLogger(b.logger), assert.WithMetrics(b.metrics))

	return b
}

// Ledger returns the ledger backing the book.
func (b *Book) Ledger() *ledger.Ledger {
	return b.ledger
}

// Len returns the number of accounts.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.accounts)
}

// Account returns a snapshot of the account of clientID.
func (b *Book) Account(clientID uint16) (Snapshot, bool) {
	b.mu.RLock()
	acct, ok := b.accounts[clientID]
	b.mu.RUnlock()

	if !ok {
		return Snapshot{}, false
	}

	return acct.Snapshot(), true
}

// Snapshots yields one snapshot per account in ascending client id order.
// The set of clients is fixed when iteration starts.
func (b *Book) Snapshots() iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		b.mu.RLock()
		ids := make([]uint16, 0, len(b.accounts))

		for id := range b.accounts {
			ids = append(ids, id)
		}

		accounts := make([]*Account, 0, len(ids))
		slices.Sort(ids)

		for _, id := range ids {
			accounts = append(accounts, b.accounts[id])
		}
		b.mu.RUnlock()

		for _, acct := range accounts {
			if !yield(acct.Snapshot()) {
				return
			}
		}
	}
}

func (b *Book) account(ctx context.Context, clientID uint16) *Account {
	b.mu.RLock()
	acct, ok := b.accounts[clientID]
	b.mu.RUnlock()

	if ok {
		return acct
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if acct, ok = b.accounts[clientID]; ok {
		return acct
	}

	acct = newAccount(clientID)
	b.accounts[clientID] = acct

	b.observe(ctx, b.metrics.RecordAccountCreated(ctx))

	return acct
}

// Apply applies one record. The returned error is non-nil only when the
// record reuses a transaction id (ledger.ErrDuplicateTransaction) or when an
// account invariant was broken (assert.ErrAssertionFailed).
func (b *Book) Apply(ctx context.Context, record transaction.Record) (Outcome, error) {
	if err := record.Validate(); err != nil {
		return b.report(ctx, ignored(record, ReasonInvalidRecord)), nil
	}

	acct := b.account(ctx, record.ClientID)

	acct.mu.Lock()
	defer acct.mu.Unlock()

	wasLocked := acct.locked

	outcome, err := b.transition(acct, record)
	if err != nil {
		return Outcome{}, fmt.Errorf("apply %s: %w", record, err)
	}

	if outcome.Applied {
		if err := b.checkInvariants(ctx, acct); err != nil {
			return Outcome{}, err
		}

		if !wasLocked && acct.locked {
			b.observe(ctx, b.metrics.RecordAccountLocked(ctx))
			b.logger.Log(ctx, log.LevelInfo, "account locked",
				log.Client(record.ClientID),
				log.Tx(record.TxID),
			)
		}
	}

	return b.report(ctx, outcome), nil
}

func (b *Book) transition(acct *Account, record transaction.Record) (Outcome, error) {
	switch record.Kind {
	case transaction.KindDeposit:
		return b.deposit(acct, record)
	case transaction.KindWithdrawal:
		return b.withdraw(acct, record)
	case transaction.KindDispute:
		return b.dispute(acct, record), nil
	case transaction.KindResolve:
		amount, err := b.ledger.Resolve(record.TxID, record.ClientID)
		if err != nil {
			return ignored(record, reasonFor(err)), nil
		}

		acct.release(amount)

		return applied(record), nil
	case transaction.KindChargeback:
		amount, err := b.ledger.Chargeback(record.TxID, record.ClientID)
		if err != nil {
			return ignored(record, reasonFor(err)), nil
		}

		acct.reverse(amount)

		return applied(record), nil
	default:
		return ignored(record, ReasonInvalidRecord), nil
	}
}

func (b *Book) deposit(acct *Account, record transaction.Record) (Outcome, error) {
	amount := record.AmountOrZero()

	switch {
	case acct.locked:
		return ignored(record, ReasonAccountLocked), nil
	case !amount.IsPositive():
		return ignored(record, ReasonNonPositiveAmount), nil
	}

	if err := b.ledger.RecordDeposit(record.TxID, record.ClientID, amount); err != nil {
		return Outcome{}, err
	}

	acct.credit(amount)

	return applied(record), nil
}

// withdraw reserves the tx id before checking funds, so a rejected
// withdrawal still makes a later reuse of its id a duplicate.
func (b *Book) withdraw(acct *Account, record transaction.Record) (Outcome, error) {
	amount := record.AmountOrZero()

	switch {
	case acct.locked:
		return ignored(record, ReasonAccountLocked), nil
	case !amount.IsPositive():
		return ignored(record, ReasonNonPositiveAmount), nil
	}

	if err := b.ledger.RecordWithdrawal(record.TxID, record.ClientID, amount); err != nil {
		return Outcome{}, err
	}

	if acct.available.LessThan(amount) {
		return ignored(record, ReasonInsufficientFunds), nil
	}

	acct.debit(amount)

	return applied(record), nil
}

// dispute holds the deposit amount only when it is fully available, so
// available never drops below zero. Entries of this client only change under
// acct.mu, so the lookup and the transition agree.
func (b *Book) dispute(acct *Account, record transaction.Record) Outcome {
	if entry, ok := b.ledger.Lookup(record.TxID); ok &&
		entry.ClientID == record.ClientID &&
		entry.Kind == transaction.KindDeposit &&
		entry.State == ledger.StateNormal &&
		acct.available.LessThan(entry.Amount) {
		return ignored(record, ReasonInsufficientFunds)
	}

	amount, err := b.ledger.BeginDispute(record.TxID, record.ClientID)
	if err != nil {
		return ignored(record, reasonFor(err))
	}

	acct.hold(amount)

	return applied(record)
}

func (b *Book) checkInvariants(ctx context.Context, acct *Account) error {
	kv := []any{"client", acct.clientID}

	if err := b.asserter.BalanceConsistent(ctx, acct.available, acct.held, acct.total, kv...); err != nil {
		return err
	}

	if err := b.asserter.NonNegative(ctx, acct.available, "available must not be negative", kv...); err != nil {
		return err
	}

	return b.asserter.NonNegative(ctx, acct.held, "held must not be negative", kv...)
}

func (b *Book) report(ctx context.Context, outcome Outcome) Outcome {
	kind := attribute.String(constant.AttrTransactionKind, constant.SanitizeMetricLabel(outcome.Record.Kind.String()))

	if outcome.Applied {
		b.observe(ctx, b.metrics.RecordTransactionApplied(ctx, kind))

		return outcome
	}

	b.observe(ctx, b.metrics.RecordTransactionIgnored(ctx, kind,
		attribute.String(constant.AttrReason, string(outcome.Reason))))

	if b.logger.Enabled(log.LevelDebug) {
		b.logger.Log(ctx, log.LevelDebug, "transaction ignored",
			log.String("kind", outcome.Record.Kind.String()),
			log.Client(outcome.Record.ClientID),
			log.Tx(outcome.Record.TxID),
			log.String("reason", string(outcome.Reason)),
		)
	}

	return outcome
}

func (b *Book) observe(ctx context.Context, err error) {
	if err != nil {
		b.logger.Log(ctx, log.LevelWarn, "failed to record metric", log.Err(err))
	}
}
