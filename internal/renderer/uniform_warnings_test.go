package renderer

import "testing"

func TestNewUniformWarnings(t *testing.T) {
	uw := NewUniformWarnings()

	if uw == nil {
		t.Fatal("NewUniformWarnings returned nil")
	}

	if uw.seen == nil {
		t.Error("seen map should be initialized")
	}
}

func TestUniformWarningsFirstMiss(t *testing.T) {
	uw := NewUniformWarnings()

	if !uw.FirstMiss("lightPos") {
		t.Error("first miss should be reported")
	}
	if uw.FirstMiss("lightPos") {
		t.Error("second miss of the same name should be suppressed")
	}
	if !uw.FirstMiss("viewPos") {
		t.Error("a different name should be reported")
	}
	if uw.Len() != 2 {
		t.Errorf("expected 2 names, got %d", uw.Len())
	}
}

func TestUniformWarningsClear(t *testing.T) {
	uw := NewUniformWarnings()
	uw.FirstMiss("model")

	uw.Clear()

	if uw.Len() != 0 {
		t.Error("Clear should empty the set")
	}
	if !uw.FirstMiss("model") {
		t.Error("names should be reported again after Clear")
	}
}
