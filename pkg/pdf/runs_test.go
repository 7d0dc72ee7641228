package pdf

import (
	"testing"
)

func TestBuildRunsMergesFragments(t *testing.T) {
	// Glyph-level items on one baseline, as the rsc-derived readers
	// report them, including the space glyph inside the street name.
	glyphs := []textGlyph{
		{x: 100, y: 700, w: 6, size: 10, text: "1"},
		{x: 106, y: 700, w: 6, size: 10, text: "4"},
		{x: 112, y: 700, w: 3, size: 10, text: " "},
		{x: 115, y: 700, w: 6, size: 10, text: "B"},
		{x: 121, y: 700, w: 6, size: 10, text: "A"},
		{x: 127, y: 700, w: 6, size: 10, text: "Y"},
	}

	runs := buildRuns(glyphs)
	if len(runs) != 1 {
		t.Fatalf("buildRuns() produced %d runs, want 1", len(runs))
	}
	if runs[0].Text != "14 BAY" {
		t.Errorf("run text = %q, want %q", runs[0].Text, "14 BAY")
	}
	if runs[0].X != 100 {
		t.Errorf("run x = %v, want 100", runs[0].X)
	}
	if runs[0].Y != -710 {
		t.Errorf("run y = %v, want -710", runs[0].Y)
	}
	if runs[0].Width != 33 {
		t.Errorf("run width = %v, want 33", runs[0].Width)
	}
}

func TestBuildRunsSplitsOnGap(t *testing.T) {
	// Column values positioned apart must stay separate elements.
	glyphs := []textGlyph{
		{x: 50, y: 700, w: 30, size: 10, text: "APPNO"},
		{x: 200, y: 700, w: 40, size: 10, text: "RECEIVED"},
	}

	runs := buildRuns(glyphs)
	if len(runs) != 2 {
		t.Fatalf("buildRuns() produced %d runs, want 2", len(runs))
	}
	if runs[0].Text != "APPNO" || runs[1].Text != "RECEIVED" {
		t.Errorf("run texts = %q, %q", runs[0].Text, runs[1].Text)
	}
}

func TestBuildRunsSplitsOnBaseline(t *testing.T) {
	glyphs := []textGlyph{
		{x: 50, y: 700, w: 30, size: 10, text: "COFFIN"},
		{x: 50, y: 688, w: 30, size: 10, text: "CUMMINS"},
	}

	runs := buildRuns(glyphs)
	if len(runs) != 2 {
		t.Fatalf("buildRuns() produced %d runs, want 2", len(runs))
	}
	// Higher on the page sorts first and flips to the smaller y.
	if runs[0].Text != "COFFIN" {
		t.Errorf("first run = %q, want COFFIN", runs[0].Text)
	}
	if runs[0].Y >= runs[1].Y {
		t.Errorf("run order y = %v, %v, want ascending", runs[0].Y, runs[1].Y)
	}
}

func TestBuildRunsDropsWhitespace(t *testing.T) {
	glyphs := []textGlyph{
		{x: 50, y: 700, w: 10, size: 10, text: "   "},
		{x: 300, y: 700, w: 20, size: 10, text: "LOT 4"},
	}

	runs := buildRuns(glyphs)
	if len(runs) != 1 {
		t.Fatalf("buildRuns() produced %d runs, want 1", len(runs))
	}
	if runs[0].Text != "LOT 4" {
		t.Errorf("run text = %q, want %q", runs[0].Text, "LOT 4")
	}
}

func TestBuildRunsEmpty(t *testing.T) {
	if runs := buildRuns(nil); runs != nil {
		t.Errorf("buildRuns(nil) = %v, want nil", runs)
	}
}
