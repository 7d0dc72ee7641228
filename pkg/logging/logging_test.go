package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"terminal", Config{Style: StyleTerminal, Level: "debug"}, false},
		{"json", Config{Style: StyleJSON, Level: "warn"}, false},
		{"logfmt", Config{Style: StyleLogfmt}, false},
		{"noop", Config{Style: StyleNoop}, false},
		{"unknown style", Config{Style: "syslog"}, true},
		{"bad level", Config{Level: "loud"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestNewAppliesLevel(t *testing.T) {
	logger, err := New(Config{Style: StyleJSON, Level: "warn"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info logging enabled, want it filtered at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn logging filtered, want it enabled")
	}
}
