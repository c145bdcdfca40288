package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	prev := logger
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func TestLogSessionNeverLogsValues(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	LogSession("file", "saved", "artesaoId", "artesaoNome")

	entries := logs.FilterMessage("Session event").All()
	if len(entries) != 1 {
		t.Fatalf("got %d session entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["backend"] != "file" || fields["event"] != "saved" {
		t.Errorf("fields = %v", fields)
	}
	keys, ok := fields["keys"].([]interface{})
	if !ok || len(keys) != 2 {
		t.Errorf("keys = %#v", fields["keys"])
	}
}

func TestLogTransitionIsDebug(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)
	LogTransition("abc", "login", "idle", "validating")
	if logs.Len() != 0 {
		t.Errorf("transition logged at info level")
	}

	logs = observe(t, zapcore.DebugLevel)
	LogTransition("abc", "login", "idle", "validating")
	entry := logs.All()[0]
	if entry.Level != zapcore.DebugLevel || entry.ContextMap()["to"] != "validating" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	t.Setenv(LogFileEnvVar, "")
	prev := logger
	t.Cleanup(func() { SetLogger(prev) })

	if err := Initialize(""); err != nil {
		t.Fatal(err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger enabled without a level")
	}
}

func TestInitializeWithOutputWritesFile(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	prev := logger
	t.Cleanup(func() { SetLogger(prev) })

	path := filepath.Join(t.TempDir(), "artesanato.log")
	if err := InitializeWithOutput("warn", path); err != nil {
		t.Fatal(err)
	}
	Info("dropped")
	Warn("kept", zap.String("url", "http://localhost:3000"))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("log file contents:\n%s", out)
	}
}
