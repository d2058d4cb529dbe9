package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tdkit/agentaudit/internal/adapters/inbound/cli"
)

func TestExitCode(t *testing.T) {
	strict := &cli.StrictError{Critical: 1, High: 2}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, cli.ExitOK},
		{"strict failure", strict, cli.ExitStrict},
		{"wrapped strict failure", fmt.Errorf("audit: %w", strict), cli.ExitStrict},
		{"fatal error", errors.New("boom"), cli.ExitFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestStrictError_Message(t *testing.T) {
	err := &cli.StrictError{Critical: 3, High: 1}
	assert.Equal(t, "strict mode: 3 critical and 1 high findings", err.Error())
}
