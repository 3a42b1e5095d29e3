package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestInitialize(t *testing.T) {
	orig := Logger
	t.Cleanup(func() { Logger = orig })

	tests := []struct {
		name       string
		jsonOutput bool
		verbose    bool
		wantDebug  bool
	}{
		{name: "console", wantDebug: false},
		{name: "console verbose", verbose: true, wantDebug: true},
		{name: "json", jsonOutput: true, wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Initialize(tt.jsonOutput, tt.verbose); err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}
			if got := Logger.Desugar().Core().Enabled(zap.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !Logger.Desugar().Core().Enabled(zap.InfoLevel) {
				t.Error("info should always be enabled")
			}
		})
	}
}
