package constant

// Transaction kinds as they appear in the input type column.
const (
	DEPOSIT    = "deposit"
	WITHDRAWAL = "withdrawal"
	DISPUTE    = "dispute"
	RESOLVE    = "resolve"
	CHARGEBACK = "chargeback"
)

// Reasons attached to ignored records.
const (
	ReasonAccountLocked     = "account_locked"
	ReasonNonPositiveAmount = "non_positive_amount"
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonUnknownTx         = "unknown_tx"
	ReasonClientMismatch    = "client_mismatch"
	ReasonNotDisputable     = "not_disputable"
	ReasonAlreadyDisputed   = "already_disputed"
	ReasonNotDisputed       = "not_disputed"
	ReasonChargedBack       = "charged_back"
	ReasonInvalidRecord     = "invalid_record"
)

// AmountScale is the number of fractional digits carried by every amount.
const AmountScale = 4
