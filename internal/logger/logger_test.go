package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewWritesDailyFile(t *testing.T) {
	root := t.TempDir()
	log, err := New(root, false, true)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer zap.ReplaceGlobals(zap.NewNop())

	log.Debugw("session timed out", "session_id", "abc")
	_ = log.Sync()

	path := filepath.Join(root, "logs", time.Now().Format("2006-01-02")+".log")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if !zap.L().Core().Enabled(zap.DebugLevel) {
		t.Error("debug level not enabled on global logger")
	}
}
