package pdf

import (
	"strings"
	"testing"
)

func TestOpenRejectsGarbage(t *testing.T) {
	_, err := Open([]byte("this is not a pdf"))
	if err == nil {
		t.Fatal("Open() succeeded on garbage input")
	}
	if !strings.Contains(err.Error(), "no backend could open document") {
		t.Errorf("Open() error = %v, want backend chain failure", err)
	}
}

func TestOpenRejectsEmpty(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Fatal("Open() succeeded on empty input")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open([]byte("%PDF-1.4"), WithBackend("mupdf"))
	if err == nil {
		t.Fatal("Open() succeeded with unknown backend")
	}
	if !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("Open() error = %v, want unknown backend", err)
	}
}

func TestOpenForcedBackendFailure(t *testing.T) {
	// Forcing one backend must not fall through to the others.
	_, err := Open([]byte("garbage"), WithBackend(BackendLedongthuc))
	if err == nil {
		t.Fatal("Open() succeeded on garbage input")
	}
	if !strings.Contains(err.Error(), BackendLedongthuc) {
		t.Errorf("Open() error = %v, want %s failure", err, BackendLedongthuc)
	}
}
