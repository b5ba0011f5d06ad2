// ABOUTME: Tests for structured logger construction.

package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		env     string
		enabled zapcore.Level
		wantErr bool
	}{
		{name: "default level", level: "", env: "", enabled: zapcore.InfoLevel},
		{name: "debug development", level: "debug", env: "development", enabled: zapcore.DebugLevel},
		{name: "warn production", level: "warn", env: "production", enabled: zapcore.WarnLevel},
		{name: "bad level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.env)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error for invalid level")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !logger.Core().Enabled(tt.enabled) {
				t.Errorf("Expected %s to be enabled", tt.enabled)
			}
			if tt.enabled > zapcore.DebugLevel && logger.Core().Enabled(tt.enabled-1) {
				t.Errorf("Expected %s to be disabled", tt.enabled-1)
			}
		})
	}
}
