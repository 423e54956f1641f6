package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("measured") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("pass") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("pass") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestParseLogFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Formatter
		wantErr bool
	}{
		{"text", log.TextFormatter, false},
		{"JSON", log.JSONFormatter, false},
		{" logfmt ", log.LogfmtFormatter, false},
		{"xml", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLogFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLogFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLogFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.SetFormatter(log.JSONFormatter)

	newProgress(logger).done("Rendered svg", "elements", 6)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("progress output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "Rendered svg" {
		t.Errorf("msg = %v, want Rendered svg", entry["msg"])
	}
	if entry["elements"] != float64(6) {
		t.Errorf("elements = %v, want 6", entry["elements"])
	}
	if _, ok := entry["elapsed"]; !ok {
		t.Error("progress output missing elapsed")
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	got := loggerFromContext(ctx)
	if got != custom {
		t.Fatal("loggerFromContext() should return the attached logger")
	}
	got.Info("frame cached")
	if !strings.Contains(buf.String(), "frame cached") {
		t.Errorf("attached logger output = %q", buf.String())
	}
}
