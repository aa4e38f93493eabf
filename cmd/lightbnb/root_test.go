package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/rs/zerolog"
)

func TestLogCommandError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		logged bool
	}{
		{"data fault is not repeated", errs.NewDataFault("properties.search", errors.New("boom")), false},
		{"wrapped conflict is not repeated", errors.Join(errors.New("create"), errs.NewConflictError("exists", nil, nil)), false},
		{"rejected input is logged", errs.NewFieldError("limit", "must be greater than 0"), true},
		{"other error is logged", errors.New("one of --email or --id is required"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := zerolog.New(&buf).Level(zerolog.InfoLevel)

			logCommandError(&log, "search", tt.err)

			if got := strings.Contains(buf.String(), "command failed"); got != tt.logged {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.logged, buf.String())
			}
			if tt.logged && !strings.Contains(buf.String(), `"level":"error"`) {
				t.Errorf("expected error level, got %q", buf.String())
			}
		})
	}
}
