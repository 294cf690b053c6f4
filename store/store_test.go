package store

import (
	"os"
	"path/filepath"
	"testing"
)

func setTestConfigDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	return root
}

func TestRememberEvent_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	events, err := LoadRecentEvents()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}

	if err := RememberEvent(1, "Arena"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := RememberEvent(2, "Hall"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := RememberEvent(1, ""); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	events, err = LoadRecentEvents()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %+v", events)
	}
	if events[0].EventID != 1 || events[0].Venue != "Arena" {
		t.Fatalf("expected event 1 first with its venue kept, got %+v", events[0])
	}
	if events[1].EventID != 2 {
		t.Fatalf("expected event 2 second, got %+v", events[1])
	}
}

func TestRememberEvent_CapsHistory(t *testing.T) {
	setTestConfigDir(t)

	for id := 1; id <= maxRecentEvents+3; id++ {
		if err := RememberEvent(id, ""); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	events, err := LoadRecentEvents()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(events) != maxRecentEvents {
		t.Fatalf("expected %d events, got %d", maxRecentEvents, len(events))
	}
	if events[0].EventID != maxRecentEvents+3 {
		t.Fatalf("expected newest first, got %+v", events[0])
	}
}

func TestRememberEvent_InvalidInput(t *testing.T) {
	setTestConfigDir(t)

	if err := RememberEvent(0, "Arena"); err == nil {
		t.Fatal("expected error for non-positive event id")
	}
}

func TestLoadRecentEvents_CorruptFile(t *testing.T) {
	root := setTestConfigDir(t)
	path := filepath.Join(root, appDir, recentEventFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRecentEvents(); err == nil {
		t.Fatal("expected error for corrupt history")
	}
}
