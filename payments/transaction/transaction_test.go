//go:build unit

package transaction

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{input: "deposit", want: KindDeposit},
		{input: " Withdrawal ", want: KindWithdrawal},
		{input: "DISPUTE", want: KindDispute},
		{input: "resolve", want: KindResolve},
		{input: "chargeBack", want: KindChargeback},
		{input: "refund", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ErrorInvalidInput, CodeOf(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindHasAmount(t *testing.T) {
	t.Parallel()

	assert.True(t, KindDeposit.HasAmount())
	assert.True(t, KindWithdrawal.HasAmount())
	assert.False(t, KindDispute.HasAmount())
	assert.False(t, KindResolve.HasAmount())
	assert.False(t, KindChargeback.HasAmount())
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "1", want: "1.0000"},
		{input: "1.5", want: "1.5000"},
		{input: " 2.7182 ", want: "2.7182"},
		{input: "0.0001", want: "0.0001"},
		{input: "3.10000", want: "3.1000"},
		{input: "-1.0", want: "-1.0000"},
		{input: "1.00001", wantErr: true},
		{input: "1e3", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)

				var domainErr DomainError
				require.True(t, errors.As(err, &domainErr))
				assert.Equal(t, ErrorInvalidInput, domainErr.Code)
				assert.Equal(t, "amount", domainErr.Field)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatAmount(got))
		})
	}
}

func TestRecordValidate(t *testing.T) {
	t.Parallel()

	one := decimal.NewFromInt(1)
	tooPrecise := decimal.RequireFromString("0.00001")

	tests := []struct {
		name    string
		record  Record
		wantErr bool
	}{
		{name: "deposit", record: Deposit(1, 1, one)},
		{name: "withdrawal", record: Withdrawal(1, 2, one)},
		{name: "dispute", record: Dispute(1, 1)},
		{name: "resolve", record: Resolve(1, 1)},
		{name: "chargeback", record: Chargeback(1, 1)},
		{name: "deposit without amount", record: Record{Kind: KindDeposit, ClientID: 1, TxID: 1}, wantErr: true},
		{name: "dispute with amount", record: Record{Kind: KindDispute, ClientID: 1, TxID: 1, Amount: &one}, wantErr: true},
		{name: "deposit too precise", record: Deposit(1, 1, tooPrecise), wantErr: true},
		{name: "unknown kind", record: Record{Kind: "refund"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.record.Validate()
			if tt.wantErr {
				assert.Equal(t, ErrorInvalidInput, CodeOf(err))
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRecordHelpers(t *testing.T) {
	t.Parallel()

	dep := Deposit(7, 42, decimal.RequireFromString("1.25"))
	assert.Equal(t, "deposit client=7 tx=42 amount=1.25", dep.String())
	assert.True(t, dep.AmountOrZero().Equal(decimal.RequireFromString("1.25")))

	dis := Dispute(7, 42)
	assert.Equal(t, "dispute client=7 tx=42", dis.String())
	assert.True(t, dis.AmountOrZero().IsZero())
}

func TestDomainErrorMatching(t *testing.T) {
	t.Parallel()

	sentinel := DomainError{Code: ErrorDuplicateTransaction, Message: "duplicate transaction id"}
	specific := NewDomainError(ErrorDuplicateTransaction, "tx", "tx 7 already recorded")
	wrapped := fmt.Errorf("apply: %w", specific)

	assert.ErrorIs(t, wrapped, sentinel)
	assert.NotErrorIs(t, NewDomainError(ErrorInvalidInput, "tx", "bad"), sentinel)
	assert.Equal(t, ErrorDuplicateTransaction, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))

	assert.Equal(t, "1003: tx 7 already recorded (tx)", specific.Error())
	assert.Equal(t, "1003: duplicate transaction id", sentinel.Error())
}
