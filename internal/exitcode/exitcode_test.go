package exitcode_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"todo/internal/exitcode"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, exitcode.Wrap(exitcode.Success))
	assert.EqualError(t, exitcode.Wrap(exitcode.AuthError), "exit status 2")
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitcode.Success},
		{"carried", exitcode.Wrap(exitcode.BackendError), exitcode.BackendError},
		{"wrapped", fmt.Errorf("demo: %w", exitcode.Wrap(exitcode.AuthError)), exitcode.AuthError},
		{"plain", errors.New("unknown flag"), exitcode.UserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitcode.FromError(tt.err))
		})
	}
}
