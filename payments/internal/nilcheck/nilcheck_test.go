//go:build unit

package nilcheck

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sink struct{}

func (*sink) Write(p []byte) (int, error) { return len(p), nil }

func TestInterface(t *testing.T) {
	t.Parallel()

	var typedNil *sink
	var writer io.Writer = typedNil

	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "untyped nil", value: nil, want: true},
		{name: "typed nil behind interface", value: writer, want: true},
		{name: "nil map", value: map[uint16]int(nil), want: true},
		{name: "non-nil pointer", value: &sink{}, want: false},
		{name: "value type", value: 7, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Interface(tt.value))
		})
	}
}
