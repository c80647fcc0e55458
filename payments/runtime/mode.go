package runtime

import (
	"fmt"
	"sync/atomic"
)

const redactedPanicValue = "panic recovered (details redacted)"

var productionMode atomic.Bool

// SetProductionMode enables or disables redaction of panic values and stacks.
func SetProductionMode(enabled bool) {
	productionMode.Store(enabled)
}

// IsProductionMode reports whether redaction is enabled.
func IsProductionMode() bool {
	return productionMode.Load()
}

// describe renders a panic value for logs and spans.
func describe(value any) string {
	if IsProductionMode() {
		return redactedPanicValue
	}

	switch v := value.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}
