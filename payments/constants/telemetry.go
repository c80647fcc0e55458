package constant

// maxMetricLabelLength bounds label values so a bad input cannot blow up
// metric cardinality.
const maxMetricLabelLength = 64

// Span and metric attribute keys.
const (
	AttrTransactionKind = "transaction.kind"
	AttrReason          = "reason"
	AttrRunID           = "run.id"
	AttrComponent       = "component"
	AttrOperation       = "operation"

	// AttrPrefixAssertion prefixes assertion span event attributes.
	AttrPrefixAssertion = "assertion."
	// AttrPrefixPanic prefixes panic span event attributes.
	AttrPrefixPanic = "panic."
)

// Counter names for invariant and panic failures.
const (
	MetricPanicRecoveredTotal  = "panic_recovered_total"
	MetricAssertionFailedTotal = "assertion_failed_total"
)

// Span event names.
const (
	EventAssertionFailed = "assertion.failed"
	EventPanicRecovered  = "panic.recovered"
)

// SanitizeMetricLabel truncates value to 64 bytes.
func SanitizeMetricLabel(value string) string {
	if len(value) > maxMetricLabelLength {
		return value[:maxMetricLabelLength]
	}

	return value
}
