package logger

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLogUsableWithoutInit(t *testing.T) {
	if Log == nil {
		t.Fatal("Log is nil before InitLogger")
	}
}

func TestLineFormatter(t *testing.T) {
	tests := []struct {
		level     logrus.Level
		wantLevel string
	}{
		{logrus.InfoLevel, "INFO"},
		{logrus.WarnLevel, "WARN"},
		{logrus.ErrorLevel, "ERRO"},
		{logrus.DebugLevel, "DEBU"},
	}
	for _, tt := range tests {
		entry := &logrus.Entry{
			Time:    time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC),
			Level:   tt.level,
			Message: "save failed",
		}
		out, err := (lineFormatter{}).Format(entry)
		if err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		line := string(out)
		if !strings.HasPrefix(line, "[2025-06-01 08:30:00] ["+tt.wantLevel+"]") {
			t.Errorf("line = %q, want prefix with level %s", line, tt.wantLevel)
		}
		if !strings.HasSuffix(line, "save failed\n") {
			t.Errorf("line = %q, want message and trailing newline", line)
		}
	}
}
