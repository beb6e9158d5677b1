package pktlog

import "testing"

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	l := New(Config{Level: "not-a-level"})
	if l.IsDebugEnabled() {
		t.Fatalf("expected debug disabled at the info fallback level")
	}
}

func TestDiscardNeverPanics(t *testing.T) {
	l := Discard()
	l.WithField("k", "v").WithError(nil).Info("noop")
}
