package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	constant "github.com/LerianStudio/payments-engine/payments/constants"
	"github.com/LerianStudio/payments-engine/payments/internal/nilcheck"
	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry/metrics"
	"github.com/LerianStudio/payments-engine/payments/transaction"
	"go.opentelemetry.io/otel/attribute"
)

// Reader decodes transaction records from CSV input.
type Reader struct {
	src     io.Reader
	strict  bool
	logger  log.Logger
	metrics *metrics.MetricsFactory
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithStrict makes the first malformed row end the stream with a *RowError.
func WithStrict(strict bool) ReaderOption {
	return func(r *Reader) {
		r.strict = strict
	}
}

// WithLogger sets the logger used for skipped rows.
func WithLogger(logger log.Logger) ReaderOption {
	return func(r *Reader) {
		if !nilcheck.Interface(logger) {
			r.logger = logger
		}
	}
}

// WithMetrics sets the factory used to count skipped rows.
func WithMetrics(factory *metrics.MetricsFactory) ReaderOption {
	return func(r *Reader) {
		if factory != nil {
			r.metrics = factory
		}
	}
}

// NewReader returns a Reader over src.
func NewReader(src io.Reader, opts ...ReaderOption) *Reader {
	r := &Reader{
		src:     src,
		logger:  log.NewNop(),
		metrics: metrics.NewNopFactory(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Records returns a single-pass sequence over the input. An I/O error, a
// cancelled ctx, or (in strict mode) a malformed row is yielded as the last
// element.
func (r *Reader) Records(ctx context.Context) iter.Seq2[transaction.Record, error] {
	return func(yield func(transaction.Record, error) bool) {
		cr := csv.NewReader(r.src)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		cr.ReuseRecord = true

		first := true

		for {
			if err := ctx.Err(); err != nil {
				yield(transaction.Record{}, err)
				return
			}

			fields, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			line := 0
			if err == nil {
				line, _ = cr.FieldPos(0)
			}

			var parseErr *csv.ParseError

			switch {
			case errors.As(err, &parseErr):
				malformed := transaction.NewDomainError(transaction.ErrorInvalidInput, "row", parseErr.Err.Error())
				if !r.reject(ctx, parseErr.StartLine, malformed, yield) {
					return
				}

				first = false

				continue
			case err != nil:
				yield(transaction.Record{}, fmt.Errorf("read input: %w", err))
				return
			}

			if first {
				first = false

				if isHeader(fields) {
					continue
				}
			}

			record, err := parseRow(fields)
			if err != nil {
				if !r.reject(ctx, line, err, yield) {
					return
				}

				continue
			}

			if !yield(record, nil) {
				return
			}
		}
	}
}

// reject handles a malformed row and reports whether iteration continues.
func (r *Reader) reject(ctx context.Context, line int, err error, yield func(transaction.Record, error) bool) bool {
	rowErr := &RowError{Line: line, Err: err}

	if r.strict {
		yield(transaction.Record{}, rowErr)
		return false
	}

	r.logger.Log(ctx, log.LevelWarn, "skipping malformed row",
		log.Int("line", line),
		log.Err(err),
	)

	if mErr := r.metrics.RecordRowRejected(ctx, attribute.String(constant.AttrReason, fieldOf(err))); mErr != nil {
		r.logger.Log(ctx, log.LevelWarn, "failed to record metric", log.Err(mErr))
	}

	return true
}

func fieldOf(err error) string {
	var domainErr transaction.DomainError
	if errors.As(err, &domainErr) && domainErr.Field != "" {
		return constant.SanitizeMetricLabel(domainErr.Field)
	}

	return "row"
}

func isHeader(fields []string) bool {
	return len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "type")
}

func parseRow(fields []string) (transaction.Record, error) {
	if len(fields) != 3 && len(fields) != 4 {
		return transaction.Record{}, transaction.DomainError{
			Code:    transaction.ErrorInvalidInput,
			Field:   "row",
			Message: fmt.Sprintf("%v, got %d", ErrColumnCount, len(fields)),
		}
	}

	kind, err := transaction.ParseKind(fields[0])
	if err != nil {
		return transaction.Record{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return transaction.Record{}, transaction.NewDomainError(transaction.ErrorInvalidInput, "client",
			fmt.Sprintf("client %q is not a 16-bit unsigned integer", fields[1]))
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return transaction.Record{}, transaction.NewDomainError(transaction.ErrorInvalidInput, "tx",
			fmt.Sprintf("tx %q is not a 32-bit unsigned integer", fields[2]))
	}

	record := transaction.Record{Kind: kind, ClientID: uint16(client), TxID: uint32(tx)}

	if kind.HasAmount() {
		raw := ""
		if len(fields) == 4 {
			raw = fields[3]
		}

		amount, err := transaction.ParseAmount(raw)
		if err != nil {
			return transaction.Record{}, err
		}

		record.Amount = &amount
	}

	return record, nil
}
