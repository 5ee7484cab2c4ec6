package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew_AttachesServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := WithComponent(New(Config{Output: &buf, Service: "svc", Version: "1.2.3"}), "profile")
	l.Info().Str("event", "profile.saved").Msg("saved")

	entry := decodeLine(t, &buf)
	for key, want := range map[string]string{
		"service":   "svc",
		"version":   "1.2.3",
		"component": "profile",
		"event":     "profile.saved",
		"level":     "info",
	} {
		if entry[key] != want {
			t.Fatalf("%s = %v, want %q", key, entry[key], want)
		}
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Level: "WARN"})
	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}
	l.Warn().Msg("shown")
	if buf.Len() == 0 {
		t.Fatalf("warn not logged at warn level")
	}
}

func TestNew_UnknownLevelMeansInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Level: "chatty"})
	l.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug logged with unknown level: %q", buf.String())
	}
	l.Info().Msg("shown")
	if entry := decodeLine(t, &buf); entry["service"] != "playercard" {
		t.Fatalf("service = %v, want playercard", entry["service"])
	}
}

func TestOpenFile_CreatesDirsAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "playercard.log")
	for i := 0; i < 2; i++ {
		f, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		if _, err := f.WriteString("line\n"); err != nil {
			t.Fatalf("WriteString: %v", err)
		}
		_ = f.Close()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "line\nline\n" {
		t.Fatalf("file = %q, want two appended lines", data)
	}
}

func TestOpenFile_EmptyPathErrors(t *testing.T) {
	if _, err := OpenFile("  "); err == nil {
		t.Fatalf("OpenFile returned nil error for empty path")
	}
}
