package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		wantLevel zapcore.Level
	}{
		{name: "implicit ok", status: 0, body: "hello", wantMsg: "request completed", wantLevel: zapcore.InfoLevel},
		{name: "not found", status: http.StatusNotFound, wantMsg: "request completed", wantLevel: zapcore.InfoLevel},
		{name: "server error", status: http.StatusBadGateway, wantMsg: "request failed", wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := observedLogger()
			h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			}))

			req := httptest.NewRequest("GET", "/api.d.ts", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			e := entries[0]
			if e.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, e.Message)
			}
			if e.Level != tt.wantLevel {
				t.Errorf("expected level %v, got %v", tt.wantLevel, e.Level)
			}

			fields := e.ContextMap()
			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			if got, _ := fields["status"].(int64); int(got) != wantStatus {
				t.Errorf("expected status field %d, got %v", wantStatus, fields["status"])
			}
			if fields["path"] != "/api.d.ts" {
				t.Errorf("expected path field, got %v", fields["path"])
			}
			if got, _ := fields["bytes"].(int64); int(got) != len(tt.body) {
				t.Errorf("expected bytes field %d, got %v", len(tt.body), fields["bytes"])
			}
		})
	}
}

func TestLogging_NilLogger(t *testing.T) {
	h := Logging(nil)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}
