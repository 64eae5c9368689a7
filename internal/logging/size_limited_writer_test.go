package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chatpoker/internal/config"

	"github.com/rs/zerolog/log"
)

func TestSizeLimitedWriterRotatesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poker.log")
	writer, err := newSizeLimitedWriter(path, 1)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	defer writer.Close()

	chunk := make([]byte, 512*1024)
	for i := 0; i < 5; i++ {
		if _, err := writer.Write(chunk); err != nil {
			t.Fatalf("write chunk %d: %v", i, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat log: %v", err)
	}
	if info.Size() > 1024*1024 {
		t.Fatalf("expected log <= 1MB, got %d", info.Size())
	}
	prev, err := os.Stat(path + ".1")
	if err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	if prev.Size() == 0 || prev.Size() > 1024*1024 {
		t.Fatalf("unexpected rotated size %d", prev.Size())
	}
	if _, err := os.Stat(path + ".2"); !os.IsNotExist(err) {
		t.Fatalf("only one previous file should be kept, stat err=%v", err)
	}
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poker.log")
	Init(config.LogConfig{Level: "debug", File: path, MaxMB: 1})
	defer Close()

	log.Info().Str("game_id", "C1-1.0001").Msg("session_event_applied")
	if _, err := Writer().Write([]byte(`{"msg":"access"}` + "\n")); err != nil {
		t.Fatalf("write through shared writer: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, `"game_id":"C1-1.0001"`) || !strings.Contains(body, `"msg":"access"`) {
		t.Fatalf("log file missing records: %s", body)
	}
}

func TestInitFallsBackWhenFileUnavailable(t *testing.T) {
	Init(config.LogConfig{Level: "info", File: filepath.Join(t.TempDir(), "missing", "dir", "poker.log")})
	defer Close()
	if Writer() != os.Stdout {
		t.Fatal("expected stdout writer when the log file cannot be opened")
	}
}
